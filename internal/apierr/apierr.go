// Package apierr defines the error taxonomy of the API layer.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyResponse
	KindUnexpectedShape
	KindHTMLResponse
	KindNgrokWarning
	KindInvalidType
	KindFileTooLarge
	KindImageTooSmall
	KindInvalidImage
	KindNotAPDF
	KindTransport
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindEmptyResponse:   "empty_response",
	KindUnexpectedShape: "unexpected_shape",
	KindHTMLResponse:    "html_response",
	KindNgrokWarning:    "ngrok_warning",
	KindInvalidType:     "invalid_type",
	KindFileTooLarge:    "file_too_large",
	KindImageTooSmall:   "image_too_small",
	KindInvalidImage:    "invalid_image",
	KindNotAPDF:         "not_a_pdf",
	KindTransport:       "transport",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error implements error so a bare Kind can be used as an errors.Is target
func (k Kind) Error() string {
	return k.String()
}

// Sentinels for errors.Is matching
var (
	ErrEmptyResponse   error = KindEmptyResponse
	ErrUnexpectedShape error = KindUnexpectedShape
	ErrHTMLResponse    error = KindHTMLResponse
	ErrNgrokWarning    error = KindNgrokWarning
	ErrInvalidType     error = KindInvalidType
	ErrFileTooLarge    error = KindFileTooLarge
	ErrImageTooSmall   error = KindImageTooSmall
	ErrInvalidImage    error = KindInvalidImage
	ErrNotAPDF         error = KindNotAPDF
	ErrTransport       error = KindTransport
)

// Dimensions is a pixel size
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Error is the single concrete error type of the API layer
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status, 0 for network and client-side errors
	Status int
	// File names the offending upload, if any
	File     string
	Actual   *Dimensions
	Required *Dimensions
	Err      error

	surfaced bool
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare Kind sentinel against the error kind. The HTML kind
// also matches ngrok warnings since those are HTML pages too.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	if k == e.Kind {
		return true
	}
	return k == KindHTMLResponse && e.Kind == KindNgrokWarning
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping cause
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// WithFile sets the offending filename
func (e *Error) WithFile(name string) *Error {
	e.File = name
	return e
}

// WithStatus sets the HTTP status
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// KindOf returns the kind of the first *Error in the chain
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsValidation reports whether err is a client-side pre-upload failure
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindInvalidType, KindFileTooLarge, KindImageTooSmall, KindInvalidImage, KindNotAPDF:
		return true
	}
	return false
}

// MarkSurfaced records that err has been shown to the user
func MarkSurfaced(err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		apiErr.surfaced = true
	}
}

// Surfaced reports whether err has already been shown to the user
func Surfaced(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.surfaced
	}
	return false
}
