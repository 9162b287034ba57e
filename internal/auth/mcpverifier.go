package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"

	"github.com/maraichr/gradient/internal/metrics"
)

// NewMCPTokenVerifier adapts our Verifier to the SDK's auth.TokenVerifier
// function type. The Principal is stored in TokenInfo.Extra so tool handlers
// can recover it with PrincipalFromTokenInfo.
func NewMCPTokenVerifier(v *Verifier, logger *slog.Logger) sdkauth.TokenVerifier {
	return func(ctx context.Context, token string, _ *http.Request) (*sdkauth.TokenInfo, error) {
		principal, err := v.Verify(ctx, token)
		if err != nil {
			metrics.TokenVerifications.WithLabelValues(failureLabel(err)).Inc()
			logger.Warn("bearer token rejected", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", sdkauth.ErrInvalidToken, err)
		}
		metrics.TokenVerifications.WithLabelValues(metrics.OutcomeSuccess).Inc()
		logger.Debug("bearer token verified",
			slog.String("sub", principal.Subject),
			slog.String("client_id", principal.ClientID))
		return tokenInfo(principal), nil
	}
}

func failureLabel(err error) string {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return string(ve.Kind)
	}
	return metrics.OutcomeError
}

func tokenInfo(p *Principal) *sdkauth.TokenInfo {
	return &sdkauth.TokenInfo{
		UserID:     p.Subject,
		Scopes:     p.ScopeList(),
		Expiration: p.Expiry,
		Extra: map[string]any{
			principalExtraKey: p,
		},
	}
}

// OptionalBearer lets requests without an Authorization header through
// unauthenticated and enforces the SDK bearer check on everything else, so an
// invalid token is still answered with 401.
func OptionalBearer(v sdkauth.TokenVerifier, opts *sdkauth.RequireBearerTokenOptions) func(http.Handler) http.Handler {
	if opts == nil {
		opts = &sdkauth.RequireBearerTokenOptions{}
	}
	return func(next http.Handler) http.Handler {
		required := sdkauth.RequireBearerToken(v, opts)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			required.ServeHTTP(w, r)
		})
	}
}
