package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/types"
)

// SuccessStatus is the status value of a successful legacy envelope
const SuccessStatus = 0

// Shape is the recognized wire shape of a response body
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeNoContent
	ShapeEmptySuccess
	ShapeUploadResult
	ShapePaginated
	ShapeSingle
	ShapeBareArray
	ShapeLegacy
)

var shapeNames = map[Shape]string{
	ShapeUnknown:      "unknown",
	ShapeNoContent:    "no_content",
	ShapeEmptySuccess: "empty_success",
	ShapeUploadResult: "upload_result",
	ShapePaginated:    "paginated",
	ShapeSingle:       "single",
	ShapeBareArray:    "bare_array",
	ShapeLegacy:       "legacy",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

var emptySequence = json.RawMessage("[]")

// Response is the raw outcome of an HTTP exchange
type Response struct {
	Status int
	Body   []byte
}

// Result is a normalized payload. Callers never see the envelope wrapper,
// except for paginated bodies which keep {data, meta} together.
type Result struct {
	Shape   Shape
	Payload json.RawMessage
}

// IsEmpty reports whether the result collapsed to the empty sequence
func (r Result) IsEmpty() bool {
	return r.Shape == ShapeNoContent || r.Shape == ShapeEmptySuccess
}

// Decode unmarshals the payload into v. Empty results leave v untouched.
func (r Result) Decode(v any) error {
	if v == nil || r.IsEmpty() {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", r.Shape, err)
	}
	return nil
}

// DecodePage decodes a paginated result. A bare array is accepted as a
// single page holding every item.
func DecodePage[T any](r Result) (*types.Page[T], error) {
	page := &types.Page[T]{Data: []T{}}
	switch r.Shape {
	case ShapePaginated:
		if err := json.Unmarshal(r.Payload, page); err != nil {
			return nil, fmt.Errorf("failed to decode paginated payload: %w", err)
		}
		if page.Data == nil {
			page.Data = []T{}
		}
	case ShapeBareArray, ShapeSingle, ShapeLegacy:
		if err := json.Unmarshal(r.Payload, &page.Data); err != nil {
			return nil, apierr.Wrap(apierr.KindUnexpectedShape, "expected a list response", err)
		}
		page.Meta = types.PageMeta{Total: len(page.Data), Page: 1, Limit: len(page.Data), TotalPages: 1}
	case ShapeNoContent, ShapeEmptySuccess:
		page.Meta = types.PageMeta{Page: 1}
	default:
		return nil, apierr.Newf(apierr.KindUnexpectedShape, "expected a list response, got %s", r.Shape)
	}
	return page, nil
}

// body is a response body inspected once before the rules run
type body struct {
	raw    []byte
	falsy  bool
	object map[string]json.RawMessage
	array  bool
	text   string
	isText bool
}

func inspect(raw []byte) *body {
	trimmed := bytes.TrimSpace(raw)
	b := &body{raw: trimmed}
	if len(trimmed) == 0 {
		b.falsy = true
		return b
	}

	switch trimmed[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			b.object = fields
			return b
		}
	case '[':
		if json.Valid(trimmed) {
			b.array = true
			return b
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			b.text, b.isText = s, true
			b.falsy = s == ""
			return b
		}
	}

	if json.Valid(trimmed) {
		b.falsy = !truthy(trimmed)
		return b
	}

	// Not JSON at all, typically an HTML page
	b.text, b.isText = string(raw), true
	return b
}

// truthy mirrors the truthiness of a decoded JSON value: null, false, 0
// and "" are falsy, everything else including {} and [] is truthy.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	return true
}

func (b *body) has(key string) bool {
	if b.object == nil {
		return false
	}
	_, ok := b.object[key]
	return ok
}

func (b *body) field(key string) json.RawMessage {
	if v, ok := b.object[key]; ok {
		return v
	}
	return json.RawMessage("null")
}

func (b *body) stringField(key string) string {
	var s string
	if err := json.Unmarshal(b.field(key), &s); err != nil {
		return ""
	}
	return s
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Normalizer applies the rule table and logs which rule matched
type Normalizer struct {
	rules []Rule
	log   zerolog.Logger
}

// New creates a normalizer over the default rule table
func New(log zerolog.Logger) *Normalizer {
	return &Normalizer{rules: Rules, log: log}
}

// Normalize classifies resp. It is pure apart from diagnostic logging.
func (n *Normalizer) Normalize(resp Response) (Result, error) {
	b := inspect(resp.Body)
	for _, rule := range n.rules {
		if !rule.Match(resp, b) {
			continue
		}
		result, err := rule.Apply(resp, b)
		evt := n.log.Debug().Str("rule", rule.Name).Int("status", resp.Status)
		if err != nil {
			evt = n.log.Warn().Str("rule", rule.Name).Int("status", resp.Status).Err(err)
		}
		evt.Msg("Response normalized")
		return result, err
	}
	// unreachable while the table ends with the catch-all rule
	return Result{}, apierr.New(apierr.KindUnexpectedShape, requestFailed)
}

// Normalize classifies resp with the default rule table and no logging
func Normalize(resp Response) (Result, error) {
	return New(zerolog.Nop()).Normalize(resp)
}

// IsNoContent reports a 204 status
func IsNoContent(status int) bool {
	return status == http.StatusNoContent
}
