package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/studiowebux/fitadmin/internal/apierr"
)

const (
	requestFailed = "Request failed"

	htmlMarker = "<!DOCTYPE html>"

	ngrokMessage = "ngrok tunnel requires verification. Please visit the URL directly in your browser first, or add 'ngrok-skip-browser-warning' header."
	htmlMessage  = "Server returned HTML instead of JSON. Check if your backend API is running correctly."
)

// ngrokMarkers identify the tunnel provider's interstitial page
var ngrokMarkers = []string{"ngrok.com", "ERR_NGROK"}

// Rule is one entry of the ordered classification table
type Rule struct {
	Name  string
	Shape Shape
	Match func(Response, *body) bool
	Apply func(Response, *body) (Result, error)
}

// Rules is evaluated top to bottom and the first match wins. The paginated
// rule must stay ahead of the single-envelope rule: every paginated body
// also has a data field.
var Rules = []Rule{
	{
		Name:  "no_content",
		Shape: ShapeNoContent,
		Match: func(r Response, _ *body) bool { return IsNoContent(r.Status) },
		Apply: emptyResult(ShapeNoContent),
	},
	{
		Name:  "empty_success",
		Shape: ShapeEmptySuccess,
		Match: func(r Response, b *body) bool { return b.falsy && isSuccess(r.Status) },
		Apply: emptyResult(ShapeEmptySuccess),
	},
	{
		Name:  "empty_failure",
		Shape: ShapeUnknown,
		Match: func(_ Response, b *body) bool { return b.falsy },
		Apply: func(r Response, _ *body) (Result, error) {
			return Result{}, apierr.New(apierr.KindEmptyResponse, requestFailed+": empty response body").WithStatus(r.Status)
		},
	},
	{
		Name:  "upload_result",
		Shape: ShapeUploadResult,
		Match: func(_ Response, b *body) bool { return b.has("image") && truthy(b.field("image")) },
		Apply: wholeBody(ShapeUploadResult),
	},
	{
		Name:  "paginated",
		Shape: ShapePaginated,
		Match: func(_ Response, b *body) bool { return b.has("data") && b.has("meta") },
		Apply: wholeBody(ShapePaginated),
	},
	{
		Name:  "single",
		Shape: ShapeSingle,
		Match: func(_ Response, b *body) bool { return b.has("data") },
		Apply: func(_ Response, b *body) (Result, error) {
			return Result{Shape: ShapeSingle, Payload: b.field("data")}, nil
		},
	},
	{
		Name:  "bare_array",
		Shape: ShapeBareArray,
		Match: func(_ Response, b *body) bool { return b.array },
		Apply: wholeBody(ShapeBareArray),
	},
	{
		// Legacy bodies that carry data were already unwrapped by the
		// single-envelope rule, so this only sees data-less successes.
		Name:  "legacy",
		Shape: ShapeLegacy,
		Match: func(_ Response, b *body) bool { return b.has("status") && isSuccessStatus(b.field("status")) },
		Apply: func(_ Response, b *body) (Result, error) {
			return Result{Shape: ShapeLegacy, Payload: b.field("data")}, nil
		},
	},
	{
		Name:  "html",
		Shape: ShapeUnknown,
		Match: func(_ Response, b *body) bool { return b.isText && strings.Contains(b.text, htmlMarker) },
		Apply: func(r Response, b *body) (Result, error) {
			return Result{}, classifyHTML(r.Status, b.text)
		},
	},
	{
		Name:  "unexpected",
		Shape: ShapeUnknown,
		Match: func(Response, *body) bool { return true },
		Apply: func(r Response, b *body) (Result, error) {
			msg := b.stringField("message")
			if msg == "" {
				msg = requestFailed
			}
			return Result{}, apierr.New(apierr.KindUnexpectedShape, msg).WithStatus(r.Status)
		},
	},
}

func emptyResult(shape Shape) func(Response, *body) (Result, error) {
	return func(Response, *body) (Result, error) {
		return Result{Shape: shape, Payload: emptySequence}, nil
	}
}

func wholeBody(shape Shape) func(Response, *body) (Result, error) {
	return func(_ Response, b *body) (Result, error) {
		return Result{Shape: shape, Payload: json.RawMessage(b.raw)}, nil
	}
}

func isSuccessStatus(raw json.RawMessage) bool {
	var v float64
	if string(raw) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v == SuccessStatus
}

func classifyHTML(status int, markup string) error {
	for _, marker := range ngrokMarkers {
		if strings.Contains(markup, marker) {
			return apierr.New(apierr.KindNgrokWarning, ngrokMessage).WithStatus(status)
		}
	}

	msg := htmlMessage
	if title := pageTitle(markup); title != "" {
		msg = fmt.Sprintf("%s (page title: %q)", htmlMessage, title)
	}
	return apierr.New(apierr.KindHTMLResponse, msg).WithStatus(status)
}

// pageTitle extracts the document title, falling back to the first heading
func pageTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
