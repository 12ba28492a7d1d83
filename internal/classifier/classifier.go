// Package classifier turns failed exchanges into one user-facing message,
// surfaces it, and applies the fixed side effects of a failure.
package classifier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/notify"
)

// FallbackMessage is used when neither the body nor the transport explain the failure
const FallbackMessage = "Something went wrong, please try again later"

// Failure is a failed exchange: a network error, a non-2xx status, or both
type Failure struct {
	Method string
	Path   string
	Status int    // 0 when no response was received
	Body   []byte // raw response body, may be empty or non-JSON
	Err    error  // transport-level error
}

// AuthResetter clears cached authentication state
type AuthResetter interface {
	Clear() error
}

// Classifier handles the failure path of every exchange
type Classifier struct {
	notifier notify.Notifier
	auth     AuthResetter
	log      zerolog.Logger
}

// New creates a classifier. auth may be nil when no session is held.
func New(notifier notify.Notifier, auth AuthResetter, log zerolog.Logger) *Classifier {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Classifier{notifier: notifier, auth: auth, log: log}
}

// Message picks exactly one message: the body message, then the transport
// message, then the fallback. Sources are never concatenated.
func Message(f Failure) string {
	if msg := BodyMessage(f.Body); msg != "" {
		return msg
	}
	if msg := transportMessage(f); msg != "" {
		return msg
	}
	return FallbackMessage
}

func transportMessage(f Failure) string {
	if f.Err != nil {
		return NetworkMessage(f.Err)
	}
	if f.Status != 0 {
		return fmt.Sprintf("Request failed with status code %d", f.Status)
	}
	return ""
}

// BodyMessage extracts the "message" field of a JSON body. Validation
// errors that send a list of messages are joined.
func BodyMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(envelope.Message, &msg); err == nil {
		return strings.TrimSpace(msg)
	}
	var msgs []string
	if err := json.Unmarshal(envelope.Message, &msgs); err == nil {
		return strings.TrimSpace(strings.Join(msgs, "; "))
	}
	return ""
}

// Classify surfaces the failure once, clears the session on 401, and returns
// the error for the caller to branch on.
func (c *Classifier) Classify(f Failure) error {
	msg := Message(f)

	c.log.Error().
		Str("method", f.Method).
		Str("path", f.Path).
		Int("status", f.Status).
		AnErr("cause", f.Err).
		Str("message", msg).
		Msg("API request failed")

	err := &apierr.Error{
		Kind:    apierr.KindTransport,
		Message: msg,
		Status:  f.Status,
		Err:     f.Err,
	}
	notify.Error(c.notifier, msg)
	apierr.MarkSurfaced(err)

	if f.Status == http.StatusUnauthorized && c.auth != nil {
		if clearErr := c.auth.Clear(); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("Failed to clear session after 401")
		} else {
			c.log.Info().Msg("Session cleared after 401")
		}
	}

	return err
}

// Surface shows an error raised outside the failure path, such as a
// normalizer error on a 2xx response. Already surfaced errors are skipped.
func (c *Classifier) Surface(err error) error {
	if err == nil || apierr.Surfaced(err) {
		return err
	}
	notify.Error(c.notifier, err.Error())
	apierr.MarkSurfaced(err)
	return err
}
