package mock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPort = 9876
	DefaultHost = "localhost"

	maxLogs = 1000
)

// compiledRoute is a route with its matcher resolved once
type compiledRoute struct {
	Route
	re *regexp.Regexp
}

// match reports whether path matches and returns regex captures
func (r *compiledRoute) match(method, path string) (bool, []string) {
	if !strings.EqualFold(r.Method, method) {
		return false, nil
	}
	switch r.PathType {
	case "prefix":
		return strings.HasPrefix(path, r.Path), nil
	case "regex":
		if r.re == nil {
			return false, nil
		}
		m := r.re.FindStringSubmatch(path)
		return m != nil, m
	default:
		return r.Path == path, nil
	}
}

// Server represents the mock backend
type Server struct {
	config     *Config
	routes     []*compiledRoute
	httpServer *http.Server
	listener   net.Listener
	logs       []RequestLog
	logsMutex  sync.RWMutex
	workdir    string
	notifyCh   chan struct{} // signalled when a new log arrives
	log        zerolog.Logger
}

// NewServer creates a new mock server
func NewServer(config *Config, workdir string, log zerolog.Logger) *Server {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}

	effective := config.Effective()
	routes := make([]*compiledRoute, 0, len(effective))
	for _, r := range effective {
		cr := &compiledRoute{Route: r}
		if r.PathType == "regex" {
			re, err := regexp.Compile(r.Path)
			if err != nil {
				log.Warn().Err(err).Str("path", r.Path).Msg("Skipping mock route with invalid regex")
			}
			cr.re = re
		}
		routes = append(routes, cr)
	}

	return &Server{
		config:   config,
		routes:   routes,
		logs:     make([]RequestLog, 0),
		workdir:  workdir,
		notifyCh: make(chan struct{}, 100),
		log:      log.With().Str("component", "mock").Logger(),
	}
}

// Handler returns the request handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Mock server error")
		}
	}()

	s.log.Info().Str("addr", s.GetAddress()).Int("routes", len(s.routes)).Msg("Mock server started")
	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// handleRequest handles incoming HTTP requests
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body.Close()

	upload := uploadedFilename(r.Header.Get("Content-Type"), bodyBytes)

	route, captures := s.findMatchingRoute(r.Method, r.URL.Path)

	var status int
	var responseBody string
	var matchedRule string

	switch {
	case route == nil:
		status = http.StatusNotFound
		responseBody = fmt.Sprintf(`{"message":"Mock server: no route configured for %s %s"}`, r.Method, r.URL.Path)
		matchedRule = "none"
	case route.RequireAuth && !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "):
		status = http.StatusUnauthorized
		responseBody = `{"message":"Unauthorized"}`
		matchedRule = route.ruleName()
	default:
		if route.Delay > 0 {
			time.Sleep(time.Duration(route.Delay) * time.Millisecond)
		}

		status = route.Status
		if status == 0 {
			status = http.StatusOK
		}

		for key, value := range route.Headers {
			w.Header().Set(key, value)
		}

		if route.BodyFile != "" {
			filePath := route.BodyFile
			if !filepath.IsAbs(filePath) {
				filePath = filepath.Join(s.workdir, filePath)
			}
			data, err := os.ReadFile(filePath)
			if err != nil {
				status = http.StatusInternalServerError
				responseBody = fmt.Sprintf("Mock server: Failed to read body file %s: %v", route.BodyFile, err)
			} else {
				responseBody = string(data)
			}
		} else {
			responseBody = route.Body
		}
		responseBody = expand(responseBody, upload, captures)

		matchedRule = route.ruleName()
	}

	duration := time.Since(start)

	s.log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("rule", matchedRule).
		Dur("duration", duration).
		Msg("Mock request")

	if s.config.Logging {
		requestBody := string(bodyBytes)
		if upload != "" {
			requestBody = ""
		}
		s.logRequest(RequestLog{
			Timestamp:   start,
			RequestID:   r.Header.Get("X-Request-ID"),
			Method:      r.Method,
			Path:        r.URL.Path,
			Headers:     flattenHeaders(r.Header),
			Body:        requestBody,
			Upload:      upload,
			MatchedRule: matchedRule,
			Status:      status,
			Duration:    duration,
		})
	}

	// the request is in the log before the client sees the reply
	if w.Header().Get("Content-Type") == "" && responseBody != "" {
		w.Header().Set("Content-Type", sniffContentType(responseBody))
	}
	w.WriteHeader(status)
	if status != http.StatusNoContent {
		_, _ = w.Write([]byte(responseBody))
	}
}

func (r *compiledRoute) ruleName() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}

// findMatchingRoute finds the first route that matches the method and path
func (s *Server) findMatchingRoute(method, path string) (*compiledRoute, []string) {
	for _, route := range s.routes {
		if ok, captures := route.match(method, path); ok {
			return route, captures
		}
	}
	return nil, nil
}

// expand substitutes {{filename}} and regex {{$N}} placeholders
func expand(body, filename string, captures []string) string {
	if !strings.Contains(body, "{{") {
		return body
	}
	body = strings.ReplaceAll(body, "{{filename}}", filename)
	for i := len(captures) - 1; i >= 1; i-- {
		body = strings.ReplaceAll(body, fmt.Sprintf("{{$%d}}", i), captures[i])
	}
	return body
}

// uploadedFilename returns the filename of the first file part, if any
func uploadedFilename(contentType string, body []byte) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return ""
	}
	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			return ""
		}
		if name := part.FileName(); name != "" {
			return name
		}
	}
}

func sniffContentType(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "application/json; charset=utf-8"
	}
	if strings.HasPrefix(trimmed, "<") {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

// GetAddress returns the server address
func (s *Server) GetAddress() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// flattenHeaders converts http.Header to map[string]string (first value only)
func flattenHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if len(values) > 0 {
			result[key] = values[0]
		}
	}
	return result
}
