package mock

import "time"

// Config represents the mock backend configuration
type Config struct {
	Port    int     `json:"port" yaml:"port"`       // Server port (default: 9876)
	Host    string  `json:"host" yaml:"host"`       // Server host (default: localhost)
	Routes  []Route `json:"routes" yaml:"routes"`   // Route definitions, first match wins
	Logging bool    `json:"logging" yaml:"logging"` // Keep a request log (default: true)

	// Builtin serves DefaultRoutes(BasePath) after Routes (default: true)
	Builtin  bool   `json:"builtin" yaml:"builtin"`
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
}

// Route represents a mock route configuration
type Route struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Method      string            `json:"method" yaml:"method"`
	Path        string            `json:"path" yaml:"path"`
	PathType    string            `json:"pathType,omitempty" yaml:"pathType,omitempty"` // exact, prefix, regex (default: exact)
	Status      int               `json:"status" yaml:"status"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string            `json:"body,omitempty" yaml:"body,omitempty"` // supports {{filename}} and {{$N}} placeholders
	BodyFile    string            `json:"bodyFile,omitempty" yaml:"bodyFile,omitempty"`
	Delay       int               `json:"delay,omitempty" yaml:"delay,omitempty"` // milliseconds
	RequireAuth bool              `json:"requireAuth,omitempty" yaml:"requireAuth,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp   time.Time         `json:"timestamp"`
	RequestID   string            `json:"requestId,omitempty"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body,omitempty"`
	Upload      string            `json:"upload,omitempty"` // filename of the multipart file part
	MatchedRule string            `json:"matchedRule"`
	Status      int               `json:"status"`
	Duration    time.Duration     `json:"duration"`
}
