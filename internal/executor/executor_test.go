package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/mock"
	"github.com/studiowebux/fitadmin/internal/normalize"
	"github.com/studiowebux/fitadmin/internal/notify"
	"github.com/studiowebux/fitadmin/internal/session"
	"github.com/studiowebux/fitadmin/internal/types"
)

type memoryRecorder struct {
	mu        sync.Mutex
	exchanges []types.Exchange
}

func (r *memoryRecorder) Record(ex types.Exchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, ex)
	return nil
}

type fixture struct {
	client   *Client
	notes    *notify.Recorder
	store    *session.Store
	recorder *memoryRecorder
	mock     *mock.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := mock.NewServer(mock.DefaultConfig(), "", zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return newFixtureAt(t, ts.URL+mock.DefaultBasePath, srv)
}

func newFixtureAt(t *testing.T, baseURL string, srv *mock.Server) *fixture {
	t.Helper()
	f := &fixture{
		notes:    notify.NewRecorder(),
		store:    session.NewMemoryStore(),
		recorder: &memoryRecorder{},
		mock:     srv,
	}
	client, err := New(Options{
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Credentials: f.store,
		Notifier:    f.notes,
		Logger:      zerolog.Nop(),
		Recorder:    f.recorder,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	f.client = client
	return f
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	err := f.store.SetAuth(types.UserToken{AccessToken: "tok-123"}, &types.UserInfo{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New() should fail without a base URL")
	}
}

func TestDoResolvesShapes(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path      string
		wantShape normalize.Shape
		wantJSON  string
	}{
		{"/shapes/no-content", normalize.ShapeNoContent, `[]`},
		{"/shapes/empty", normalize.ShapeEmptySuccess, `[]`},
		{"/shapes/null", normalize.ShapeEmptySuccess, `[]`},
		{"/shapes/array", normalize.ShapeBareArray, `[1,2,3]`},
		{"/shapes/legacy", normalize.ShapeLegacy, `null`},
		{"/user/trainers/t7", normalize.ShapeSingle, `{"_id":"t7","first_name":"Ava","last_name":"Stone","email":"ava@fit.dev","status":"active"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := f.client.Do(context.Background(), types.NewRequest(http.MethodGet, tt.path))
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			if res.Shape != tt.wantShape {
				t.Errorf("shape = %s, want %s", res.Shape, tt.wantShape)
			}
			if string(res.Payload) != tt.wantJSON {
				t.Errorf("payload = %s, want %s", res.Payload, tt.wantJSON)
			}
		})
	}

	if n := len(f.notes.All()); n != 0 {
		t.Errorf("successful exchanges produced %d notifications", n)
	}
}

func TestDoFailures(t *testing.T) {
	tests := []struct {
		path        string
		wantKind    error
		wantStatus  int
		wantMessage string
	}{
		{"/shapes/server-error", apierr.ErrTransport, 500, "Internal server error"},
		{"/shapes/empty-failure", apierr.ErrTransport, 502, "Request failed with status code 502"},
		{"/shapes/forbidden", apierr.ErrTransport, 403, "Forbidden"},
		{"/shapes/unexpected", apierr.ErrUnexpectedShape, 200, "Unexpected payload"},
		{"/shapes/html", apierr.ErrHTMLResponse, 200, ""},
		{"/shapes/ngrok", apierr.ErrNgrokWarning, 200, ""},
		{"/does-not-exist", apierr.ErrTransport, 404, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.client.Do(context.Background(), types.NewRequest(http.MethodGet, tt.path))
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Do() error = %v (%s), want %v", err, apierr.KindOf(err), tt.wantKind)
			}
			if got := apierr.StatusOf(err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if tt.wantMessage != "" && err.Error() != tt.wantMessage {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMessage)
			}
			if got := f.notes.Count(notify.LevelError); got != 1 {
				t.Errorf("notifications = %d, want exactly 1", got)
			}
			if !apierr.Surfaced(err) {
				t.Error("returned error should be marked surfaced")
			}
		})
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	_, err := f.client.Do(context.Background(), types.NewRequest(http.MethodGet, "/shapes/unauthorized"))
	if apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", apierr.StatusOf(err))
	}
	if f.store.IsAuthenticated() {
		t.Error("session should be cleared after 401")
	}
	if last, _ := f.notes.Last(); last.Message != "Session expired" {
		t.Errorf("notification = %q", last.Message)
	}
}

func TestForbiddenKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	_, _ = f.client.Do(context.Background(), types.NewRequest(http.MethodGet, "/shapes/forbidden"))
	if !f.store.IsAuthenticated() {
		t.Error("403 must not clear the session")
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer ts.Close()

	f := newFixtureAt(t, ts.URL, nil)
	f.signIn(t)

	var out struct {
		OK bool `json:"ok"`
	}
	if err := f.client.Post(context.Background(), "/things", map[string]string{"a": "b"}, &out); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if !out.OK {
		t.Error("payload was not decoded")
	}

	checks := map[string]string{
		"Content-Type":           ContentTypeJSON,
		"Authorization":          "Bearer tok-123",
		HeaderSkipBrowserWarning: "true",
	}
	for key, want := range checks {
		if v := got.Get(key); v != want {
			t.Errorf("header %s = %q, want %q", key, v, want)
		}
	}
	if got.Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	f := newFixtureAt(t, ts.URL, nil)
	if err := f.client.Get(context.Background(), "/x", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if auth != "" {
		t.Errorf("Authorization = %q, want none", auth)
	}
}

func TestQueryAndPathJoin(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	f := newFixtureAt(t, ts.URL+"/api/v1/", nil)
	req := types.NewRequest(http.MethodGet, "exercise").WithQuery("page", "2").WithQuery("limit", "10")
	if _, err := f.client.Do(context.Background(), req); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotURL != "/api/v1/exercise?limit=10&page=2" {
		t.Errorf("URL = %s", gotURL)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	var field, filename, partType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		mr := multipart.NewReader(r.Body, params["boundary"])
		part, err := mr.NextPart()
		if err == nil {
			field, filename, partType = part.FormName(), part.FileName(), part.Header.Get("Content-Type")
			io.Copy(io.Discard, part)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"image":"stored.png"}`))
	}))
	defer ts.Close()

	f := newFixtureAt(t, ts.URL, nil)
	file := types.UploadFile{Name: "cat.png", ContentType: "image/png", Data: []byte("png")}
	res, err := f.client.Upload(context.Background(), "/uploads/image", "image", file)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.Shape != normalize.ShapeUploadResult {
		t.Errorf("shape = %s", res.Shape)
	}
	var up types.ImageUploadResponse
	if err := res.Decode(&up); err != nil || up.Image != "stored.png" {
		t.Errorf("Decode() = %+v, %v", up, err)
	}
	if field != "image" || filename != "cat.png" || partType != "image/png" {
		t.Errorf("part = %s %s %s", field, filename, partType)
	}
}

func TestNetworkErrorIsClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	f := newFixtureAt(t, url, nil)
	_, err := f.client.Do(context.Background(), types.NewRequest(http.MethodGet, "/x"))
	if !errors.Is(err, apierr.ErrTransport) {
		t.Fatalf("error = %v, want transport", err)
	}
	if apierr.StatusOf(err) != 0 {
		t.Errorf("status = %d, want 0", apierr.StatusOf(err))
	}
	if !strings.HasPrefix(err.Error(), "Connection refused") {
		t.Errorf("message = %q", err.Error())
	}
	if f.notes.Count(notify.LevelError) != 1 {
		t.Errorf("notifications = %d, want 1", f.notes.Count(notify.LevelError))
	}
}

func TestRequestTimeout(t *testing.T) {
	f := newFixture(t)
	req := types.NewRequest(http.MethodGet, "/shapes/slow")
	req.Timeout = 20 * time.Millisecond

	_, err := f.client.Do(context.Background(), req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
}

func TestExchangesAreRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _ = f.client.Do(ctx, types.NewRequest(http.MethodGet, "/user/trainers"))
	_, _ = f.client.Do(ctx, types.NewRequest(http.MethodGet, "/shapes/server-error"))

	if len(f.recorder.exchanges) != 2 {
		t.Fatalf("recorded %d exchanges, want 2", len(f.recorder.exchanges))
	}
	ok, failed := f.recorder.exchanges[0], f.recorder.exchanges[1]
	if ok.Status != 200 || ok.Shape != normalize.ShapePaginated.String() || !ok.Succeeded() {
		t.Errorf("ok exchange = %+v", ok)
	}
	if failed.Status != 500 || failed.Succeeded() {
		t.Errorf("failed exchange = %+v", failed)
	}

	logs := f.mock.GetLogs()
	if len(logs) != 2 || logs[0].RequestID != ok.RequestID {
		t.Errorf("request id was not propagated: %+v", logs)
	}
}

func TestDecodeMismatchIsSurfaced(t *testing.T) {
	f := newFixture(t)
	var out []string
	err := f.client.Get(context.Background(), "/user/trainers/t1", &out)
	if !errors.Is(err, apierr.ErrUnexpectedShape) {
		t.Fatalf("error = %v, want unexpected shape", err)
	}
	if f.notes.Count(notify.LevelError) != 1 {
		t.Errorf("notifications = %d, want 1", f.notes.Count(notify.LevelError))
	}
}

func TestDecodePageFromClient(t *testing.T) {
	f := newFixture(t)
	res, err := f.client.Do(context.Background(), types.NewRequest(http.MethodGet, "/exercise"))
	if err != nil {
		t.Fatal(err)
	}
	page, err := normalize.DecodePage[types.Exercise](res)
	if err != nil {
		t.Fatalf("DecodePage() error = %v", err)
	}
	if page.Meta.Total != 57 || len(page.Data) != 2 {
		t.Errorf("page = %+v", page.Meta)
	}

	raw, _ := json.Marshal(page.Data[0])
	if !strings.Contains(string(raw), "Back Squat") {
		t.Errorf("first item = %s", raw)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int64]string{0: "0ms", 999: "999ms", 1000: "1.00s", 2500: "2.50s"}
	for ms, want := range tests {
		if got := FormatDuration(ms); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", ms, got, want)
		}
	}
}
