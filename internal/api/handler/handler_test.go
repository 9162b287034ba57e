package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maraichr/gradient/internal/gradient"
	"github.com/maraichr/gradient/pkg/apierr"
)

// --- Health ---

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name string
		db   Pinger
		want int
	}{
		{"no db", nil, http.StatusOK},
		{"db up", fakePinger{}, http.StatusOK},
		{"db down", fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(tt.db).Readyz(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// --- Gradients ---

func TestGradientHandler_List(t *testing.T) {
	w := httptest.NewRecorder()
	NewGradientHandler().List(w, httptest.NewRequest(http.MethodGet, "/api/gradients", nil))

	var resp gradientsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Count != 25 || len(resp.Gradients) != 25 {
		t.Errorf("got success=%v count=%d len=%d", resp.Success, resp.Count, len(resp.Gradients))
	}
	if resp.Gradients[0].Name != gradient.At(0).Name {
		t.Errorf("got first gradient %q", resp.Gradients[0].Name)
	}
}

func TestGradientHandler_Heroes(t *testing.T) {
	w := httptest.NewRecorder()
	NewGradientHandler().Heroes(w, httptest.NewRequest(http.MethodGet, "/api/gradients/hero", nil))

	var resp gradientsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != len(gradient.Heroes()) {
		t.Errorf("got count %d", resp.Count)
	}
}

// --- Upload ---

type fakeImageStore struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (f *fakeImageStore) PutImage(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.contentType = key, contentType
	f.data, _ = io.ReadAll(r)
	return "https://cdn.example.com/" + key, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "tweet.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_Stub(t *testing.T) {
	w := httptest.NewRecorder()
	NewUploadHandler(slog.Default(), nil, 0).Upload(w, httptest.NewRequest(http.MethodPost, "/api/upload-image", nil))

	var resp uploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || !resp.Success || resp.URL != stubUploadURL {
		t.Errorf("got %d %+v", w.Code, resp)
	}
	if resp.Message != "Image upload not implemented yet" {
		t.Errorf("got message %q", resp.Message)
	}
}

func TestUploadHandler_StoresPNG(t *testing.T) {
	store := &fakeImageStore{}
	w := httptest.NewRecorder()
	NewUploadHandler(slog.Default(), store, 0).Upload(w, multipartRequest(t, "file", pngHeader))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(store.key, "shares/") || !strings.HasSuffix(store.key, ".png") {
		t.Errorf("got key %q", store.key)
	}
	if store.contentType != "image/png" {
		t.Errorf("got content type %q", store.contentType)
	}
	if !bytes.Equal(store.data, pngHeader) {
		t.Error("stored bytes should include the sniffed header")
	}

	var resp uploadResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.URL != "https://cdn.example.com/"+store.key {
		t.Errorf("got url %q", resp.URL)
	}
}

func TestUploadHandler_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		max    int64
		status int
		code   apierr.Code
	}{
		{
			name:   "missing file",
			req:    func(t *testing.T) *http.Request { return multipartRequest(t, "other", pngHeader) },
			status: http.StatusBadRequest,
			code:   apierr.CodeFileRequired,
		},
		{
			name:   "not an image",
			req:    func(t *testing.T) *http.Request { return multipartRequest(t, "file", []byte("hello world")) },
			status: http.StatusBadRequest,
			code:   apierr.CodeUnsupportedImageType,
		},
		{
			name:   "too large",
			req:    func(t *testing.T) *http.Request { return multipartRequest(t, "file", bytes.Repeat([]byte("a"), 4096)) },
			max:    1024,
			status: http.StatusRequestEntityTooLarge,
			code:   apierr.CodeFileTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewUploadHandler(slog.Default(), &fakeImageStore{}, tt.max).Upload(w, tt.req(t))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if resp := decodeError(t, w); resp.Error.Code != tt.code {
				t.Errorf("got code %s", resp.Error.Code)
			}
		})
	}
}

func TestUploadHandler_StoreFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewUploadHandler(slog.Default(), &fakeImageStore{err: errors.New("bucket missing")}, 0).
		Upload(w, multipartRequest(t, "file", pngHeader))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// --- Static ---

func TestStaticHandler(t *testing.T) {
	widgets := t.TempDir()
	frontend := t.TempDir()
	os.WriteFile(filepath.Join(widgets, widgetFile), []byte("<div>widget</div>"), 0o644)
	os.MkdirAll(filepath.Join(frontend, "assets"), 0o755)
	os.WriteFile(filepath.Join(frontend, "assets", "app.js"), []byte("console.log(1)"), 0o644)

	h := NewStaticHandler(slog.Default(), widgets, frontend)

	w := httptest.NewRecorder()
	h.Widget(w, httptest.NewRequest(http.MethodGet, "/widget/gradient-tweet", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "widget") {
		t.Errorf("widget: got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not available") {
		t.Errorf("login without index.html: got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.Assets().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	if w.Code != http.StatusOK {
		t.Errorf("assets: got %d", w.Code)
	}
}
