package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the development backend
	DefaultBaseURL = "http://localhost:9876/api/v1"
	// DefaultImageBaseURL serves uploaded files
	DefaultImageBaseURL = "http://194.195.92.92/fitness-backend/uploads"
	// DefaultAvatarPath is returned for users without an image
	DefaultAvatarPath = "/assets/images/avatars/avatar-4.png"

	DefaultTimeoutMs     = 50000
	DefaultMinWidth      = 400
	DefaultMinHeight     = 600
	DefaultMaxImageBytes = 5 * 1024 * 1024
	DefaultMaxPdfBytes   = 10 * 1024 * 1024
)

// Options are the recognized runtime options
type Options struct {
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
	ImageBaseURL         string `json:"imageBaseUrl" yaml:"imageBaseUrl"`
	TimeoutMs            int    `json:"timeoutMs" yaml:"timeoutMs"`
	MinWidth             int    `json:"minWidth" yaml:"minWidth"`
	MinHeight            int    `json:"minHeight" yaml:"minHeight"`
	MaxImageBytes        int64  `json:"maxImageBytes" yaml:"maxImageBytes"`
	MaxPdfBytes          int64  `json:"maxPdfBytes" yaml:"maxPdfBytes"`
	ShowToast            bool   `json:"showToast" yaml:"showToast"`
	MaxConcurrentUploads int    `json:"maxConcurrentUploads,omitempty" yaml:"maxConcurrentUploads,omitempty"` // 0 = unbounded
	LogLevel             string `json:"logLevel" yaml:"logLevel"`
	History              bool   `json:"history" yaml:"history"`
}

// Default returns the built-in options
func Default() Options {
	return Options{
		BaseURL:       DefaultBaseURL,
		ImageBaseURL:  DefaultImageBaseURL,
		TimeoutMs:     DefaultTimeoutMs,
		MinWidth:      DefaultMinWidth,
		MinHeight:     DefaultMinHeight,
		MaxImageBytes: DefaultMaxImageBytes,
		MaxPdfBytes:   DefaultMaxPdfBytes,
		ShowToast:     true,
		LogLevel:      "info",
		History:       true,
	}
}

// Timeout returns the request deadline as a duration
func (o Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// Validate checks that every gate and deadline is usable
func (o Options) Validate() error {
	var errs []error
	if strings.TrimSpace(o.BaseURL) == "" {
		errs = append(errs, errors.New("baseUrl is required"))
	}
	if o.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("timeoutMs must be positive, got %d", o.TimeoutMs))
	}
	if o.MinWidth < 0 || o.MinHeight < 0 {
		errs = append(errs, fmt.Errorf("minimum dimensions must not be negative, got %dx%d", o.MinWidth, o.MinHeight))
	}
	if o.MaxImageBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxImageBytes must be positive, got %d", o.MaxImageBytes))
	}
	if o.MaxPdfBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxPdfBytes must be positive, got %d", o.MaxPdfBytes))
	}
	if o.MaxConcurrentUploads < 0 {
		errs = append(errs, fmt.Errorf("maxConcurrentUploads must not be negative, got %d", o.MaxConcurrentUploads))
	}
	return errors.Join(errs...)
}

// ImageURL builds the public URL of an uploaded file
func (o Options) ImageURL(path string) string {
	if path == "" {
		return DefaultAvatarPath
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(o.ImageBaseURL, "/") + path
}

// LoadOptions reads options from path on top of the defaults.
// A missing file yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("failed to parse YAML options: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &opts); err != nil {
			return opts, fmt.Errorf("failed to parse JSON options: %w", err)
		}
	default:
		return opts, fmt.Errorf("unsupported options file format: %s (use .yaml, .yml, .json, or .jsonc)", ext)
	}

	return opts, nil
}

// SaveOptions writes options to path in the format implied by its extension
func SaveOptions(opts Options, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(opts)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json", ".jsonc":
		data, err = json.MarshalIndent(opts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported options file format: %s (use .yaml, .yml, .json, or .jsonc)", ext)
	}

	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write options file: %w", err)
	}

	return nil
}

// Environment variables that override file options
const (
	EnvAPIURL    = "FITADMIN_API_URL"
	EnvImageURL  = "FITADMIN_IMAGE_URL"
	EnvTimeoutMs = "FITADMIN_TIMEOUT_MS"
	EnvLogLevel  = "FITADMIN_LOG_LEVEL"
	EnvShowToast = "FITADMIN_SHOW_TOAST"
)

// ApplyEnv overrides options from the environment through getenv
func (o *Options) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvAPIURL); v != "" {
		o.BaseURL = v
	}
	if v := getenv(EnvImageURL); v != "" {
		o.ImageBaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		o.LogLevel = v
	}
	if v := getenv(EnvTimeoutMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeoutMs, v, err)
		}
		o.TimeoutMs = ms
	}
	if v := getenv(EnvShowToast); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvShowToast, v, err)
		}
		o.ShowToast = show
	}
	return nil
}

// Load resolves options from the options file and the process environment
func Load() (Options, error) {
	opts, err := LoadOptions(GetOptionsFilePath())
	if err != nil {
		return opts, err
	}
	if err := opts.ApplyEnv(os.Getenv); err != nil {
		return opts, err
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}
