package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maraichr/gradient/internal/config"
	"github.com/maraichr/gradient/pkg/apierr"
	"github.com/maraichr/gradient/pkg/models"
)

type stubExchanger struct{}

func (stubExchanger) Exchange(_ context.Context, token string) (models.ExternalProfile, error) {
	return models.ExternalProfile{ExternalUserID: "u1", Handle: "alice", DisplayName: "Alice"}, nil
}

type stubProfiles struct{ saved int }

func (s *stubProfiles) GetOrCreate(_ context.Context, ext models.ExternalProfile) (models.Profile, error) {
	s.saved++
	return models.Profile{UserID: ext.ExternalUserID, TwitterHandle: ext.Handle, DisplayName: ext.DisplayName}, nil
}

func newTestRouter(t *testing.T, deps RouterDeps) http.Handler {
	t.Helper()
	if deps.Static.WidgetDir == "" {
		deps.Static = config.StaticConfig{WidgetDir: t.TempDir(), FrontendDir: t.TempDir()}
	}
	return NewRouter(slog.Default(), deps)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "198.51.100.4:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, RouterDeps{})
	for _, path := range []string{"/healthz", "/readyz"} {
		if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: got %d", path, w.Code)
		}
	}
}

func TestRouter_SaveProfile(t *testing.T) {
	profiles := &stubProfiles{}
	r := newTestRouter(t, RouterDeps{Exchanger: stubExchanger{}, Profiles: profiles})

	w := do(r, http.MethodPost, "/api/save-profile", `{"session_token":"sess"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	if profiles.saved != 1 {
		t.Errorf("expected one save, got %d", profiles.saved)
	}
}

func TestRouter_SaveProfileRateLimited(t *testing.T) {
	r := newTestRouter(t, RouterDeps{
		Exchanger: stubExchanger{},
		Profiles:  &stubProfiles{},
		RateLimit: config.RateLimitConfig{SaveProfilePerMinute: 1},
	})

	if w := do(r, http.MethodPost, "/api/save-profile", `{"session_token":"sess"}`); w.Code != http.StatusOK {
		t.Fatalf("first request: got %d", w.Code)
	}
	w := do(r, http.MethodPost, "/api/save-profile", `{"session_token":"sess"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d", w.Code)
	}
	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != apierr.CodeRateLimited {
		t.Errorf("got code %s", resp.Error.Code)
	}
}

func TestRouter_Gradients(t *testing.T) {
	r := newTestRouter(t, RouterDeps{})
	w := do(r, http.MethodGet, "/api/gradients", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Success || resp.Count != 25 {
		t.Errorf("got %+v", resp)
	}
}

func TestRouter_UploadStub(t *testing.T) {
	r := newTestRouter(t, RouterDeps{})
	w := do(r, http.MethodPost, "/api/upload-image", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "example.com/uploaded-image.png") {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_WidgetMissing(t *testing.T) {
	r := newTestRouter(t, RouterDeps{})
	w := do(r, http.MethodGet, "/widget/gradient-tweet", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("got %d", w.Code)
	}
}

func TestRouter_MCPAndMetadata(t *testing.T) {
	var mcpHits []string
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mcpHits = append(mcpHits, r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})
	metadata := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resource":"http://localhost:8000"}`))
	})
	r := newTestRouter(t, RouterDeps{MCP: mcp, ResourceMetadata: metadata})

	for _, path := range []string{"/mcp", "/"} {
		if w := do(r, http.MethodPost, path, `{}`); w.Code != http.StatusAccepted {
			t.Errorf("%s: got %d", path, w.Code)
		}
	}
	if len(mcpHits) != 2 {
		t.Errorf("expected both paths to reach MCP, got %v", mcpHits)
	}

	w := do(r, http.MethodGet, "/.well-known/oauth-protected-resource", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "resource") {
		t.Errorf("metadata: got %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t, RouterDeps{Exchanger: stubExchanger{}, Profiles: &stubProfiles{}})
	req := httptest.NewRequest(http.MethodOptions, "/api/save-profile", nil)
	req.Header.Set("Origin", "https://chatgpt.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("got allow-origin %q", got)
	}
}
