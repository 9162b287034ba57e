package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maraichr/gradient/internal/auth"
)

const authRequiredMessage = "Authentication required. Please connect your account first."

// ProfileOutput is the structured content of get-my-profile.
type ProfileOutput struct {
	UserID     string         `json:"user_id"`
	ClientID   string         `json:"client_id"`
	Scopes     []string       `json:"scopes"`
	ClaimCount int            `json:"claim_count"`
	JWTClaims  map[string]any `json:"jwt_claims"`
}

// getMyProfile reports the caller's verified token identity.
func (d *Dispatcher) getMyProfile(_ context.Context, _ map[string]json.RawMessage, p *auth.Principal, logger *slog.Logger) Result {
	if p == nil {
		logger.Warn("get-my-profile without a principal")
		return errorResult(authRequiredMessage)
	}

	scopes := p.ScopeList()
	out := ProfileOutput{
		UserID:     p.Subject,
		ClientID:   p.ClientID,
		Scopes:     scopes,
		ClaimCount: len(p.Claims),
		JWTClaims:  p.Claims,
	}

	scopeText := "none"
	if len(scopes) > 0 {
		scopeText = strings.Join(scopes, ", ")
	}
	text := fmt.Sprintf("Profile Information:\n- User ID: %s\n- Client ID: %s\n- Scopes: %s\n- JWT Claims: %d claims present",
		out.UserID, out.ClientID, scopeText, out.ClaimCount)

	logger.Info("profile retrieved", slog.Int("scopes", len(scopes)))
	return Result{Content: []string{text}, StructuredContent: out}
}
