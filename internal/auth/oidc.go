package auth

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

const defaultVerifyTimeout = 10 * time.Second

// Options tune token verification.
type Options struct {
	// Audience is checked against the aud claim. Empty disables the check.
	Audience string
	// Timeout bounds each verification, including any key fetch.
	Timeout time.Duration
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

// Verifier validates bearer tokens against the issuer's signing keys.
// Keys are discovered from the issuer and cached by go-oidc.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	timeout  time.Duration
}

// NewVerifier creates a Verifier using OIDC discovery from the issuer URL.
// publicIssuer optionally specifies the expected token issuer when it differs
// from the discovery URL (e.g. discovery over an internal hostname).
func NewVerifier(ctx context.Context, issuerURL, publicIssuer string, opts Options) (*Verifier, error) {
	if publicIssuer != "" && publicIssuer != issuerURL {
		ctx = oidc.InsecureIssuerURLContext(ctx, publicIssuer)
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(oidcConfig(opts)),
		timeout:  timeoutOrDefault(opts.Timeout),
	}, nil
}

// NewStaticVerifier creates a Verifier over a fixed set of public keys,
// skipping discovery. Used for pinned keys and in tests.
func NewStaticVerifier(issuer string, keys []crypto.PublicKey, opts Options) *Verifier {
	ks := &oidc.StaticKeySet{PublicKeys: keys}
	return &Verifier{
		verifier: oidc.NewVerifier(issuer, ks, oidcConfig(opts)),
		timeout:  timeoutOrDefault(opts.Timeout),
	}
}

func oidcConfig(opts Options) *oidc.Config {
	return &oidc.Config{
		ClientID:          opts.Audience,
		SkipClientIDCheck: opts.Audience == "",
		Now:               opts.Now,
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultVerifyTimeout
	}
	return d
}

// Verify checks the token's signature and validity window and maps its
// claims into a Principal. Every failure is a *VerifyError; a returned
// Principal always has a non-empty Subject.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, verifyFailure(KindMalformedToken, errors.New("empty token"))
	}
	if err := checkShape(rawToken); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		var expired *oidc.TokenExpiredError
		switch {
		case errors.As(err, &expired):
			return nil, verifyFailure(KindExpired, err)
		case ctx.Err() != nil:
			return nil, verifyFailure(KindKeysUnavailable, err)
		default:
			return nil, verifyFailure(KindInvalidSignature, err)
		}
	}

	claims := map[string]any{}
	if err := token.Claims(&claims); err != nil {
		return nil, verifyFailure(KindMalformedToken, fmt.Errorf("parse claims: %w", err))
	}

	p, err := principalFromClaims(claims)
	if err != nil {
		return nil, err
	}
	p.Issuer = token.Issuer
	p.Expiry = token.Expiry
	return p, nil
}

// checkShape rejects tokens whose claims go-oidc would misreport: a missing
// exp reads as the zero time (expired) and a non-string sub fails its
// claim decoding (invalid signature).
func checkShape(rawToken string) *VerifyError {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return verifyFailure(KindMalformedToken, err)
	}
	if _, ok := claims["exp"].(float64); !ok {
		return verifyFailure(KindMalformedToken, errors.New("missing or non-numeric exp claim"))
	}
	if sub, ok := claims["sub"]; ok {
		if _, isString := sub.(string); !isString {
			return verifyFailure(KindMissingSubject, fmt.Errorf("sub claim is %T, not a string", sub))
		}
	}
	return nil
}

func principalFromClaims(claims map[string]any) (*Principal, error) {
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return nil, verifyFailure(KindMissingSubject, errors.New("no sub claim"))
	}

	return &Principal{
		Subject:  sub,
		ClientID: clientIDClaim(claims),
		Scopes:   scopeClaim(claims),
		Claims:   claims,
	}, nil
}

// clientIDClaim reads the authorized party, falling back to client_id.
func clientIDClaim(claims map[string]any) string {
	for _, name := range []string{"azp", "client_id"} {
		if v, ok := claims[name].(string); ok {
			return v
		}
	}
	return ""
}

func scopeClaim(claims map[string]any) map[string]bool {
	scopes := make(map[string]bool)
	switch v := claims["scope"].(type) {
	case string:
		for _, s := range strings.Fields(v) {
			scopes[s] = true
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				scopes[s] = true
			}
		}
	}
	return scopes
}
