package classifier

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

const (
	msgTimeout     = "Request timeout - check the base URL or raise timeoutMs in the options"
	msgCancelled   = "Request cancelled"
	msgConnTimeout = "Connection timeout - server took too long to respond"
	msgRefused     = "Connection refused - check that the backend is running and the port is correct"
	msgReset       = "Connection reset by server - the backend may have crashed"
	msgUnreachable = "Network unreachable - check network connection and firewall settings"
	msgHostDown    = "Host unreachable - check that the backend is online"
	msgDNS         = "DNS resolution failed - verify the backend hostname"
)

// networkPattern maps error text fragments to a message. Order matters:
// proxy failures usually also contain "connection refused".
type networkPattern struct {
	fragments []string
	message   string
}

var networkPatterns = []networkPattern{
	{[]string{"context canceled", "context cancelled"}, msgCancelled},
	{[]string{"deadline exceeded"}, msgTimeout},
	{[]string{"proxy"}, "Proxy connection failed - verify the proxy environment variables"},
	{[]string{"no such host", "dial tcp: lookup", "dns"}, msgDNS},
	{[]string{"connection refused"}, msgRefused},
	{[]string{"connection reset"}, msgReset},
	{[]string{"network is unreachable", "no route to host"}, msgUnreachable},
	{[]string{"stopped after"}, "Too many redirects - check the backend configuration or URL"},
	{[]string{"invalid url", "unsupported protocol"}, "Invalid URL - verify the base URL format and protocol (http/https)"},
	{[]string{"eof"}, "Connection closed unexpectedly - the backend terminated the connection"},
	{[]string{"timeout", "timed out"}, msgConnTimeout},
	{[]string{"malformed http"}, "Malformed HTTP exchange - check the request headers and body"},
}

var tlsPatterns = []networkPattern{
	{[]string{"unknown authority", "certificate is not trusted"}, "TLS certificate verification failed - certificate is not trusted"},
	{[]string{"expired"}, "TLS certificate has expired - contact the server administrator"},
	{[]string{"certificate is valid for", "name mismatch", "doesn't match"}, "TLS hostname mismatch - certificate doesn't match the requested hostname"},
	{[]string{"handshake"}, "TLS handshake failed - check TLS version compatibility"},
	{[]string{"bad certificate"}, "TLS bad certificate - the server rejected the client certificate"},
}

// ContextError attaches the state of ctx to a transport error. A context
// cancelled with a cause reports only the cause through the HTTP client, so
// the cancellation itself would otherwise be lost.
func ContextError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	ctxErr := ctx.Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %w", ctxErr, err)
}

// NetworkMessage derives a user-facing message from a transport error chain
func NetworkMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	if errors.Is(err, context.Canceled) {
		return msgCancelled
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return msgTimeout
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return tlsPatterns[0].message
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return msgConnTimeout
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED:
				return msgRefused
			case syscall.ECONNRESET:
				return msgReset
			case syscall.ENETUNREACH:
				return msgUnreachable
			case syscall.EHOSTUNREACH:
				return msgHostDown
			}
		}
	}

	return messageFromText(err.Error())
}

func messageFromText(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)

	if containsAny(lower, "tls", "ssl", "certificate", "x509") {
		if msg := match(lower, tlsPatterns); msg != "" {
			return msg
		}
		return "TLS/SSL error: " + text
	}

	if msg := match(lower, networkPatterns); msg != "" {
		return msg
	}
	return text
}

func match(lower string, patterns []networkPattern) string {
	for _, p := range patterns {
		if containsAny(lower, p.fragments...) {
			return p.message
		}
	}
	return ""
}

func containsAny(s string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
