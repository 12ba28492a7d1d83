package mock

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, routes []Route) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(&Config{Routes: routes, Logging: true}, t.TempDir(), zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string, header http.Header) (int, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRouteMatching(t *testing.T) {
	routes := []Route{
		{Method: "GET", Path: "/exact", Body: "exact"},
		{Method: "GET", Path: "/prefix/", PathType: "prefix", Body: "prefix"},
		{Method: "GET", Path: `^/items/([0-9]+)$`, PathType: "regex", Body: `{"id":"{{$1}}"}`},
		{Method: "post", Path: "/exact", Status: 201, Body: "created"},
	}
	_, ts := newTestServer(t, routes)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/exact", 200, "exact"},
		{"/prefix/anything/here", 200, "prefix"},
		{"/items/42", 200, `{"id":"42"}`},
		{"/items/abc", 404, ""},
		{"/missing", 404, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path, nil)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}

	resp, err := http.Post(ts.URL+"/exact", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 201 {
		t.Errorf("POST status = %d, method match should be case-insensitive", resp.StatusCode)
	}
}

func TestRequireAuth(t *testing.T) {
	_, ts := newTestServer(t, []Route{{Method: "GET", Path: "/private", RequireAuth: true, Body: `{"data":1}`}})

	status, body := get(t, ts.URL+"/private", nil)
	if status != http.StatusUnauthorized || !strings.Contains(body, "Unauthorized") {
		t.Errorf("without token: %d %s", status, body)
	}

	status, _ = get(t, ts.URL+"/private", http.Header{"Authorization": {"Bearer abc"}})
	if status != http.StatusOK {
		t.Errorf("with token: status = %d", status)
	}
}

func TestUploadFilenamePlaceholder(t *testing.T) {
	s, ts := newTestServer(t, []Route{{Method: "POST", Path: "/upload", Body: `{"image":"uploads/{{filename}}"}`}})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("image", "cat.png")
	part.Write([]byte("png-bytes"))
	w.Close()

	resp, err := http.Post(ts.URL+"/upload", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if string(body) != `{"image":"uploads/cat.png"}` {
		t.Errorf("body = %s", body)
	}

	logs := s.GetLogs()
	if len(logs) != 1 || logs[0].Upload != "cat.png" || logs[0].Body != "" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestBodyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "body.json"), []byte(`{"data":"from file"}`), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewServer(&Config{Routes: []Route{
		{Method: "GET", Path: "/file", BodyFile: "body.json"},
		{Method: "GET", Path: "/broken", BodyFile: "missing.json"},
	}}, dir, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	if status, body := get(t, ts.URL+"/file", nil); status != 200 || body != `{"data":"from file"}` {
		t.Errorf("/file = %d %s", status, body)
	}
	if status, _ := get(t, ts.URL+"/broken", nil); status != 500 {
		t.Errorf("/broken status = %d, want 500", status)
	}
}

func TestRequestLog(t *testing.T) {
	s, ts := newTestServer(t, []Route{{Name: "ping", Method: "GET", Path: "/ping", Body: "pong"}})

	get(t, ts.URL+"/ping", http.Header{"X-Request-Id": {"req-1"}})
	get(t, ts.URL+"/nope", nil)

	logs := s.GetLogs()
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
	if logs[0].MatchedRule != "ping" || logs[0].RequestID != "req-1" {
		t.Errorf("first log = %+v", logs[0])
	}
	if logs[1].MatchedRule != "none" || logs[1].Status != 404 {
		t.Errorf("second log = %+v", logs[1])
	}

	select {
	case <-s.NotifyChannel():
	default:
		t.Error("expected a log notification")
	}

	s.ClearLogs()
	if len(s.GetLogs()) != 0 {
		t.Error("ClearLogs() did not clear")
	}
}

func TestDefaultRoutesServeEveryShape(t *testing.T) {
	s := NewServer(DefaultConfig(), "", zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	tests := []struct {
		path       string
		wantStatus int
		contains   string
	}{
		{"/api/v1/shapes/no-content", 204, ""},
		{"/api/v1/shapes/empty", 200, ""},
		{"/api/v1/shapes/html", 200, "<!DOCTYPE html>"},
		{"/api/v1/shapes/ngrok", 200, "ERR_NGROK"},
		{"/api/v1/shapes/server-error", 500, "Internal server error"},
		{"/api/v1/user/trainers", 200, `"meta"`},
		{"/api/v1/user/trainers/t9", 200, `"_id":"t9"`},
		{"/api/v1/user/trainers/t9/clients", 200, `[{`},
		{"/api/v1/user/abc", 200, `"status":0`},
		{"/api/v1/admin/notifications", 401, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path, nil)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("body = %q, want it to contain %q", body, tt.contains)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "mock.yaml")
	yamlData := "port: 9999\nroutes:\n  - method: GET\n    path: /health\n    body: ok\n"
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(yamlPath)
	if err != nil {
		t.Fatalf("LoadConfig(yaml) error = %v", err)
	}
	if cfg.Port != 9999 || len(cfg.Routes) != 1 || !cfg.Logging {
		t.Errorf("LoadConfig(yaml) = %+v", cfg)
	}

	jsoncPath := filepath.Join(dir, "mock.jsonc")
	jsoncData := "{\n  // comment\n  \"routes\": [{\"method\": \"GET\", \"path\": \"/a\"},],\n}"
	if err := os.WriteFile(jsoncPath, []byte(jsoncData), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(jsoncPath); err != nil {
		t.Errorf("LoadConfig(jsonc) error = %v", err)
	}

	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("routes:\n  - method: GET\n    path: \"([\"\n    pathType: regex\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(badPath); err == nil {
		t.Error("LoadConfig() should reject an invalid regex")
	}

	roundTrip := filepath.Join(dir, "saved.json")
	if err := SaveConfig(cfg, roundTrip); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if _, err := LoadConfig(roundTrip); err != nil {
		t.Errorf("LoadConfig(saved) error = %v", err)
	}
}

func TestLoadConfigLayersBuiltinRoutes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := "basePath: /v2\nroutes:\n  - method: GET\n    path: /v2/user/trainers\n    status: 500\n    body: '{\"message\":\"db down\"}'\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Builtin || cfg.Port != DefaultPort {
		t.Errorf("LoadConfig() = %+v, want defaults kept", cfg)
	}

	s := NewServer(cfg, dir, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	if status, body := get(t, ts.URL+"/v2/user/trainers", nil); status != 500 || !strings.Contains(body, "db down") {
		t.Errorf("override = %d %q, want the configured failure", status, body)
	}
	if status, body := get(t, ts.URL+"/v2/exercise", nil); status != 200 || !strings.Contains(body, "Back Squat") {
		t.Errorf("built-in route = %d %q, want exercises under /v2", status, body)
	}

	// an expanded config serves the same routes without the built-in flag
	saved := filepath.Join(dir, "expanded.jsonc")
	if err := SaveConfig(cfg.Expand(), saved); err != nil {
		t.Fatalf("SaveConfig(jsonc) error = %v", err)
	}
	expanded, err := LoadConfig(saved)
	if err != nil {
		t.Fatalf("LoadConfig(expanded) error = %v", err)
	}
	if expanded.Builtin || len(expanded.Routes) != len(cfg.Effective()) {
		t.Errorf("expanded routes = %d (builtin %v), want %d standalone", len(expanded.Routes), expanded.Builtin, len(cfg.Effective()))
	}
	if expanded.Routes[0].Status != 500 {
		t.Errorf("expanded first route = %+v, want the override first", expanded.Routes[0])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"builtin only", Config{Builtin: true, BasePath: "/api/v1"}, ""},
		{"nothing to serve", Config{}, "no routes"},
		{"relative base path", Config{Builtin: true, BasePath: "api"}, "basePath"},
		{"unknown method", Config{Routes: []Route{{Method: "TRACE", Path: "/a"}}}, "method"},
		{"lowercase method", Config{Routes: []Route{{Method: "get", Path: "/a"}}}, ""},
		{"bad status", Config{Routes: []Route{{Method: "GET", Path: "/a", Status: 42}}}, "status"},
		{"relative path", Config{Routes: []Route{{Name: "x", Method: "GET", Path: "a"}}}, "x: path"},
		{"bad regex", Config{Routes: []Route{{Method: "GET", Path: "([", PathType: "regex"}}}, "invalid regex"},
		{"body and file", Config{Routes: []Route{{Method: "GET", Path: "/a", Body: "{}", BodyFile: "a.json"}}}, "mutually exclusive"},
		{"unknown path type", Config{Routes: []Route{{Method: "GET", Path: "/a", PathType: "glob"}}}, "pathType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfigRejectsUnknownFormat(t *testing.T) {
	if err := SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "mock.toml")); err == nil {
		t.Error("SaveConfig() should reject .toml")
	}
}
