package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOptionsMissingFileYieldsDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if opts != Default() {
		t.Errorf("LoadOptions() = %+v, want defaults", opts)
	}
}

func TestLoadOptionsFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `baseUrl: https://api.example.com/v1
timeoutMs: 1000
minWidth: 100
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{"baseUrl": "https://api.example.com/v1", "timeoutMs": 1000, "minWidth": 100}`,
		},
		{
			name: "jsonc with comments",
			file: "config.jsonc",
			content: `{
  // staging backend
  "baseUrl": "https://api.example.com/v1",
  "timeoutMs": 1000, /* one second */
  "minWidth": 100,
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			opts, err := LoadOptions(path)
			if err != nil {
				t.Fatalf("LoadOptions() error = %v", err)
			}
			if opts.BaseURL != "https://api.example.com/v1" || opts.TimeoutMs != 1000 || opts.MinWidth != 100 {
				t.Errorf("LoadOptions() = %+v", opts)
			}
			// Unset keys keep their defaults
			if opts.MinHeight != DefaultMinHeight || !opts.ShowToast {
				t.Errorf("defaults not preserved: %+v", opts)
			}
		})
	}
}

func TestLoadOptionsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Error("LoadOptions() expected error for .toml")
	}
}

func TestSaveOptionsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Default()
	want.MaxConcurrentUploads = 4
	if err := SaveOptions(want, path); err != nil {
		t.Fatalf("SaveOptions() error = %v", err)
	}
	got, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:    "https://env.example.com",
		EnvTimeoutMs: "2500",
		EnvShowToast: "false",
	}
	opts := Default()
	if err := opts.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if opts.BaseURL != "https://env.example.com" || opts.TimeoutMs != 2500 || opts.ShowToast {
		t.Errorf("ApplyEnv() = %+v", opts)
	}

	bad := Default()
	err := bad.ApplyEnv(func(k string) string {
		if k == EnvTimeoutMs {
			return "soon"
		}
		return ""
	})
	if err == nil {
		t.Error("ApplyEnv() expected error for non-numeric timeout")
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	opts := Default()
	opts.TimeoutMs = 0
	opts.MaxPdfBytes = -1
	err := opts.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"timeoutMs", "maxPdfBytes"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q missing %q", err, want)
		}
	}
}

func TestImageURL(t *testing.T) {
	opts := Default()
	opts.ImageBaseURL = "https://cdn.example.com/uploads/"

	tests := []struct {
		path string
		want string
	}{
		{"", DefaultAvatarPath},
		{"https://other.example.com/a.jpg", "https://other.example.com/a.jpg"},
		{"a.jpg", "https://cdn.example.com/uploads/a.jpg"},
		{"/a.jpg", "https://cdn.example.com/uploads/a.jpg"},
	}
	for _, tt := range tests {
		if got := opts.ImageURL(tt.path); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".fitadmin")
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}
	for _, path := range []string{SessionFile, OptionsFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
	opts, err := LoadOptions(OptionsFile)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if opts != Default() {
		t.Errorf("initialized options = %+v, want defaults", opts)
	}
}
