package types

import (
	"net/http"
	"time"
)

// RequestEnvelope describes one outgoing API call. It is created per call and
// owned by the caller; the transport never retains it after the exchange.
type RequestEnvelope struct {
	Method  string            `json:"method" yaml:"method"`
	Path    string            `json:"path" yaml:"path"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"` // JSON-serializable payload
	Form    *MultipartForm    `json:"-" yaml:"-"`                           // binary form payload, exclusive with Body
	Timeout time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// MultipartForm is a multipart/form-data body carrying a single file part
type MultipartForm struct {
	Field  string
	File   UploadFile
	Fields map[string]string
}

// NewRequest creates an envelope for method and path
func NewRequest(method, path string) *RequestEnvelope {
	return &RequestEnvelope{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
	}
}

// WithBody sets a JSON body
func (r *RequestEnvelope) WithBody(body any) *RequestEnvelope {
	r.Body = body
	return r
}

// WithQuery sets a query parameter
func (r *RequestEnvelope) WithQuery(key, value string) *RequestEnvelope {
	if r.Query == nil {
		r.Query = make(map[string]string)
	}
	r.Query[key] = value
	return r
}

// WithForm attaches a file as multipart form field
func (r *RequestEnvelope) WithForm(field string, file UploadFile) *RequestEnvelope {
	r.Form = &MultipartForm{Field: field, File: file}
	return r
}

// IsMultipart reports whether the envelope carries a form payload
func (r *RequestEnvelope) IsMultipart() bool {
	return r.Form != nil
}

// HasBody reports whether a JSON body must be sent
func (r *RequestEnvelope) HasBody() bool {
	return r.Body != nil && r.Form == nil
}

// Methods accepted by the transport
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Exchange is the record of a finished request handed to recorders
type Exchange struct {
	RequestID  string    `json:"requestId"`
	Timestamp  time.Time `json:"timestamp"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	Shape      string    `json:"shape,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
}

// Succeeded reports whether the exchange resolved to a normalized value
func (e *Exchange) Succeeded() bool {
	return e.Error == ""
}

// UserToken holds the credentials returned by sign-in
type UserToken struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Role is the role document embedded in users
type Role struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserInfo is the signed-in administrator
type UserInfo struct {
	ID                 string `json:"_id"`
	Email              string `json:"email"`
	FullName           string `json:"fullname,omitempty"`
	Image              string `json:"image,omitempty"`
	PhoneNo            string `json:"phoneNo,omitempty"`
	Role               *Role  `json:"role,omitempty"`
	IsActive           bool   `json:"isActive"`
	IsProfileCompleted bool   `json:"isProfileCompleted,omitempty"`
	AccountType        string `json:"accountType,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// Session is the cached authentication state persisted between runs
type Session struct {
	Token     UserToken `json:"token"`
	User      *UserInfo `json:"user,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
