package auth

import (
	"sort"
	"time"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
)

const principalExtraKey = "principal"

// Principal is the verified identity attached to one inbound call. It is
// derived from a bearer token and never persisted.
type Principal struct {
	Subject  string          `json:"sub"`
	ClientID string          `json:"client_id"`
	Scopes   map[string]bool `json:"scopes"`
	// Claims holds every verified claim, including ones not mapped above.
	Claims map[string]any `json:"claims"`
	Issuer string         `json:"issuer"`
	Expiry time.Time      `json:"expiry"`
}

// HasScope returns true if the principal has the given scope.
func (p *Principal) HasScope(s string) bool {
	return p.Scopes[s]
}

// ScopeList returns the scopes in sorted order.
func (p *Principal) ScopeList() []string {
	out := make([]string, 0, len(p.Scopes))
	for s := range p.Scopes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// PrincipalFromTokenInfo recovers the Principal stored by NewMCPTokenVerifier.
// It returns nil when the call was unauthenticated.
func PrincipalFromTokenInfo(ti *sdkauth.TokenInfo) *Principal {
	if ti == nil || ti.Extra == nil {
		return nil
	}
	p, _ := ti.Extra[principalExtraKey].(*Principal)
	return p
}
