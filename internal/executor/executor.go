package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/classifier"
	"github.com/studiowebux/fitadmin/internal/normalize"
	"github.com/studiowebux/fitadmin/internal/notify"
	"github.com/studiowebux/fitadmin/internal/types"
)

const (
	// ContentTypeJSON is sent with every JSON body
	ContentTypeJSON = "application/json;charset=utf-8"
	// HeaderSkipBrowserWarning suppresses the tunnel interstitial page
	HeaderSkipBrowserWarning = "ngrok-skip-browser-warning"
	// HeaderRequestID correlates client logs with backend logs
	HeaderRequestID = "X-Request-ID"

	DefaultTimeout = 50 * time.Second
)

// Credentials supplies the bearer token and is cleared on 401
type Credentials interface {
	AccessToken() string
	Clear() error
}

// Recorder receives every finished exchange
type Recorder interface {
	Record(ex types.Exchange) error
}

// TLSConfig configures server verification for self-hosted backends
type TLSConfig struct {
	CertFile           string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"caFile,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
}

// Options configure a Client
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Credentials Credentials
	Notifier    notify.Notifier
	Logger      zerolog.Logger
	Recorder    Recorder
	TLS         *TLSConfig
	// HTTPClient overrides the client built from Timeout and TLS
	HTTPClient *http.Client
}

// Client is the single shared transport. Every response goes through the
// normalizer on 2xx and through the classifier otherwise.
type Client struct {
	baseURL    string
	http       *http.Client
	creds      Credentials
	normalizer *normalize.Normalizer
	classifier *classifier.Classifier
	recorder   Recorder
	log        zerolog.Logger
}

// New creates a client
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = buildHTTPClient(opts.Timeout, opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
	}

	var auth classifier.AuthResetter
	if opts.Credentials != nil {
		auth = opts.Credentials
	}

	log := opts.Logger.With().Str("component", "executor").Logger()
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       httpClient,
		creds:      opts.Credentials,
		normalizer: normalize.New(log),
		classifier: classifier.New(opts.Notifier, auth, log),
		recorder:   opts.Recorder,
		log:        log,
	}, nil
}

// Classifier exposes the failure path for errors raised above the transport
func (c *Client) Classifier() *classifier.Classifier {
	return c.classifier
}

// Get fetches path and decodes the normalized payload into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Call(ctx, types.NewRequest(http.MethodGet, path), out)
}

// Post sends body to path and decodes the normalized payload into out
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, types.NewRequest(http.MethodPost, path).WithBody(body), out)
}

// Put sends body to path and decodes the normalized payload into out
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, types.NewRequest(http.MethodPut, path).WithBody(body), out)
}

// Patch sends body to path and decodes the normalized payload into out
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, types.NewRequest(http.MethodPatch, path).WithBody(body), out)
}

// Delete removes path and decodes the normalized payload into out
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Call(ctx, types.NewRequest(http.MethodDelete, path), out)
}

// Upload sends file as a multipart form under field
func (c *Client) Upload(ctx context.Context, path, field string, file types.UploadFile) (normalize.Result, error) {
	return c.Do(ctx, types.NewRequest(http.MethodPost, path).WithForm(field, file))
}

// Call performs req and decodes the normalized payload into out. A payload
// that does not fit out is surfaced as an unexpected shape.
func (c *Client) Call(ctx context.Context, req *types.RequestEnvelope, out any) error {
	res, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := res.Decode(out); err != nil {
		return c.classifier.Surface(
			apierr.Wrap(apierr.KindUnexpectedShape, "Unexpected response format", err))
	}
	return nil
}

// Do performs one exchange and returns the normalized result. Errors are
// *apierr.Error values that have already been surfaced once.
func (c *Client) Do(ctx context.Context, req *types.RequestEnvelope) (normalize.Result, error) {
	requestID := uuid.NewString()
	start := time.Now()
	ex := types.Exchange{
		RequestID: requestID,
		Timestamp: start,
		Method:    req.Method,
		Path:      req.Path,
	}

	log := c.log.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.Path).
		Logger()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := c.newHTTPRequest(ctx, req, requestID)
	if err != nil {
		// Building the request is a caller error, not a failed exchange.
		log.Error().Err(err).Msg("Failed to build request")
		return normalize.Result{}, err
	}

	log.Debug().Bool("multipart", req.IsMultipart()).Msg("Sending request")

	status, body, err := c.send(httpReq)
	ex.Status = status
	ex.DurationMs = time.Since(start).Milliseconds()

	var res normalize.Result
	switch {
	case err != nil:
		err = c.classifier.Classify(classifier.Failure{Method: req.Method, Path: req.Path, Status: status, Err: classifier.ContextError(ctx, err)})
	case !IsSuccessStatus(status):
		err = c.classifier.Classify(classifier.Failure{Method: req.Method, Path: req.Path, Status: status, Body: body})
	default:
		res, err = c.normalizer.Normalize(normalize.Response{Status: status, Body: body})
		if err != nil {
			var apiErr *apierr.Error
			if errors.As(err, &apiErr) && apiErr.Status == 0 {
				apiErr.WithStatus(status)
			}
			err = c.classifier.Surface(err)
		}
		ex.Shape = res.Shape.String()
	}

	if err != nil {
		ex.Error = err.Error()
	}
	log.Debug().
		Int("status", status).
		Str("duration", FormatDuration(ex.DurationMs)).
		Str("shape", ex.Shape).
		Msg("Request finished")

	c.record(ex)
	return res, err
}

func (c *Client) send(httpReq *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) record(ex types.Exchange) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ex); err != nil {
		c.log.Warn().Err(err).Str("request_id", ex.RequestID).Msg("Failed to record exchange")
	}
}

func (c *Client) newHTTPRequest(ctx context.Context, req *types.RequestEnvelope, requestID string) (*http.Request, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	var (
		bodyReader  io.Reader
		contentType string
	)
	switch {
	case req.IsMultipart():
		buf, ct, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, err
		}
		bodyReader, contentType = buf, ct
	case req.HasBody():
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader, contentType = bytes.NewReader(data), ContentTypeJSON
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType == "" {
		contentType = ContentTypeJSON
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderSkipBrowserWarning, "true")
	httpReq.Header.Set(HeaderRequestID, requestID)
	if c.creds != nil {
		if token := c.creds.AccessToken(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// resolve joins the base URL with the request path. Absolute URLs are used as is.
func (c *Client) resolve(req *types.RequestEnvelope) (string, error) {
	raw := req.Path
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = c.baseURL + "/" + strings.TrimLeft(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", req.Path, err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for key, value := range req.Query {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeMultipart(form *types.MultipartForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for key, value := range form.Fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, form.Field, form.File.Name))
	ct := form.File.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(form.File.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(timeout time.Duration, tlsConfig *TLSConfig) (*http.Client, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	return fmt.Sprintf("%.2fs", seconds)
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
