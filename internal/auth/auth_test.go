package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
)

func TestHasScope(t *testing.T) {
	p := &Principal{
		Scopes: map[string]bool{
			"openid":  true,
			"profile": true,
		},
	}

	if !p.HasScope("openid") {
		t.Error("expected HasScope(openid) = true")
	}
	if p.HasScope("email") {
		t.Error("expected HasScope(email) = false")
	}
}

func TestScopeList_Sorted(t *testing.T) {
	p := &Principal{Scopes: map[string]bool{"profile": true, "email": true, "openid": true}}
	got := p.ScopeList()
	want := []string{"email", "openid", "profile"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPrincipalFromTokenInfo(t *testing.T) {
	if PrincipalFromTokenInfo(nil) != nil {
		t.Error("nil token info should yield nil principal")
	}
	if PrincipalFromTokenInfo(&sdkauth.TokenInfo{UserID: "u1"}) != nil {
		t.Error("token info without extra should yield nil principal")
	}

	p := &Principal{Subject: "u1"}
	got := PrincipalFromTokenInfo(tokenInfo(p))
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestDevTokenVerifier(t *testing.T) {
	v := DevTokenVerifier(slog.Default())
	ti, err := v(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("dev verifier should accept any token: %v", err)
	}
	p := PrincipalFromTokenInfo(ti)
	if p == nil {
		t.Fatal("principal was nil")
	}
	if p.Subject != DevSubject {
		t.Errorf("got sub %q, want %q", p.Subject, DevSubject)
	}
	if ti.Expiration.IsZero() {
		t.Error("dev token info should carry an expiration")
	}
}

func TestMCPTokenVerifier_Valid(t *testing.T) {
	k := newTestKey(t)
	v := k.verifier(Options{})
	token := k.sign(t, validClaims())

	ti, err := NewMCPTokenVerifier(v, slog.Default())(context.Background(), token, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ti.UserID != "user-123" {
		t.Errorf("got user id %q", ti.UserID)
	}
	if p := PrincipalFromTokenInfo(ti); p == nil || p.Subject != "user-123" {
		t.Errorf("principal not stored in token info: %+v", p)
	}
}

func TestMCPTokenVerifier_Invalid(t *testing.T) {
	k := newTestKey(t)
	v := k.verifier(Options{})

	_, err := NewMCPTokenVerifier(v, slog.Default())(context.Background(), "not-a-jwt", nil)
	if !errors.Is(err, sdkauth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestOptionalBearer_NoHeaderPassesThrough(t *testing.T) {
	var called bool
	var gotInfo *sdkauth.TokenInfo
	mw := OptionalBearer(DevTokenVerifier(slog.Default()), nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotInfo = sdkauth.TokenInfoFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("unauthenticated request should pass, got status %d", rec.Code)
	}
	if gotInfo != nil {
		t.Error("no token info expected without Authorization header")
	}
}

func TestOptionalBearer_InvalidTokenRejected(t *testing.T) {
	k := newTestKey(t)
	mw := OptionalBearer(NewMCPTokenVerifier(k.verifier(Options{}), slog.Default()), nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestOptionalBearer_ValidTokenAttachesPrincipal(t *testing.T) {
	k := newTestKey(t)
	mw := OptionalBearer(NewMCPTokenVerifier(k.verifier(Options{}), slog.Default()), nil)

	var got *Principal
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrincipalFromTokenInfo(sdkauth.TokenInfoFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+k.sign(t, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got == nil || got.Subject != "user-123" {
		t.Fatalf("expected principal for user-123, got %+v", got)
	}
}
