package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
)

// DevSubject is the subject assigned to every caller in dev mode.
const DevSubject = "dev-user"

// DevTokenVerifier accepts any bearer token and yields a fixed principal.
// Use only when AUTH_ENABLED=false (development).
func DevTokenVerifier(logger *slog.Logger) sdkauth.TokenVerifier {
	logger.Warn("DEV MODE: bearer tokens are not verified, every token maps to " + DevSubject)
	return func(_ context.Context, _ string, _ *http.Request) (*sdkauth.TokenInfo, error) {
		p := &Principal{
			Subject:  DevSubject,
			ClientID: "dev",
			Scopes:   map[string]bool{"openid": true, "profile": true},
			Claims:   map[string]any{"sub": DevSubject, "azp": "dev"},
			Issuer:   "dev",
			Expiry:   time.Now().Add(time.Hour),
		}
		return tokenInfo(p), nil
	}
}
