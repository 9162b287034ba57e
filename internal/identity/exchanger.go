// Package identity talks to the hosted identity provider (Stytch) to turn a
// short-lived session token into the user's linked Twitter/X profile.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maraichr/gradient/internal/config"
	"github.com/maraichr/gradient/internal/metrics"
	"github.com/maraichr/gradient/pkg/models"
)

const (
	authenticatePath = "/v1/sessions/authenticate"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// Exchanger calls the provider's session authenticate endpoint.
type Exchanger struct {
	baseURL   string
	projectID string
	secret    string
	http      *http.Client
	logger    *slog.Logger
}

// NewExchanger creates an Exchanger from the identity provider config.
func NewExchanger(cfg config.IdentityConfig, logger *slog.Logger) *Exchanger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Exchanger{
		baseURL:   strings.TrimRight(cfg.APIURL, "/"),
		projectID: cfg.ProjectID,
		secret:    cfg.Secret,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type authenticateRequest struct {
	SessionToken string `json:"session_token"`
}

type authenticateResponse struct {
	StatusCode   int            `json:"status_code"`
	ErrorType    string         `json:"error_type"`
	ErrorMessage string         `json:"error_message"`
	User         *stytchUser    `json:"user"`
	Session      *stytchSession `json:"session"`
}

type stytchSession struct {
	UserID string `json:"user_id"`
}

type stytchUser struct {
	UserID    string           `json:"user_id"`
	Name      stytchName       `json:"name"`
	Providers []stytchProvider `json:"providers"`
}

type stytchName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type stytchProvider struct {
	ProviderType      string `json:"provider_type"`
	ProviderSubject   string `json:"provider_subject"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Username          string `json:"username"`
	ScreenName        string `json:"screen_name"`
	Name              string `json:"name"`
}

// Exchange authenticates the session token and returns the linked Twitter/X
// profile. Every failure is an *ExchangeError.
func (e *Exchanger) Exchange(ctx context.Context, sessionToken string) (models.ExternalProfile, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return models.ExternalProfile{}, exchangeFailure(KindInvalidSession, errors.New("empty session token"))
	}

	start := time.Now()
	p, err := e.exchange(ctx, sessionToken)
	metrics.RecordExchange(outcomeLabel(err), time.Since(start))
	return p, err
}

func (e *Exchanger) exchange(ctx context.Context, sessionToken string) (models.ExternalProfile, error) {
	resp, err := e.authenticate(ctx, sessionToken)
	if err != nil {
		return models.ExternalProfile{}, err
	}
	return extractTwitterProfile(resp)
}

func outcomeLabel(err error) string {
	var ee *ExchangeError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &ee):
		return string(ee.Kind)
	default:
		return metrics.OutcomeError
	}
}

func (e *Exchanger) authenticate(ctx context.Context, sessionToken string) (*authenticateResponse, error) {
	body, err := json.Marshal(authenticateRequest{SessionToken: sessionToken})
	if err != nil {
		return nil, exchangeFailure(KindNetworkError, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+authenticatePath, bytes.NewReader(body))
	if err != nil {
		return nil, exchangeFailure(KindNetworkError, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(e.projectID, e.secret)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, exchangeFailure(KindNetworkError, fmt.Errorf("call provider: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, exchangeFailure(KindNetworkError, fmt.Errorf("read response: %w", err))
	}

	var out authenticateResponse
	decodeErr := json.Unmarshal(data, &out)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, exchangeFailure(KindNetworkError, fmt.Errorf("provider status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		e.logger.Warn("session token rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("error_type", out.ErrorType))
		return nil, exchangeFailure(KindInvalidSession, fmt.Errorf("provider status %d: %s", resp.StatusCode, out.ErrorType))
	case decodeErr != nil:
		return nil, exchangeFailure(KindNetworkError, fmt.Errorf("decode response: %w", decodeErr))
	case out.User == nil:
		return nil, exchangeFailure(KindInvalidSession, errors.New("response has no user"))
	}
	return &out, nil
}

// extractTwitterProfile picks the Twitter/X provider record from the user.
func extractTwitterProfile(resp *authenticateResponse) (models.ExternalProfile, error) {
	u := resp.User
	userID := u.UserID
	if userID == "" && resp.Session != nil {
		userID = resp.Session.UserID
	}
	if userID == "" {
		return models.ExternalProfile{}, exchangeFailure(KindInvalidSession, errors.New("response has no user_id"))
	}

	for _, p := range u.Providers {
		if !isTwitterProvider(p.ProviderType) {
			continue
		}
		displayName := p.Name
		if displayName == "" {
			displayName = strings.TrimSpace(u.Name.FirstName + " " + u.Name.LastName)
		}
		handle := p.Username
		if handle == "" {
			handle = p.ScreenName
		}
		return models.ExternalProfile{
			ExternalUserID: userID,
			TwitterID:      p.ProviderSubject,
			Handle:         strings.TrimPrefix(handle, "@"),
			DisplayName:    displayName,
			AvatarURL:      p.ProfilePictureURL,
		}, nil
	}
	return models.ExternalProfile{}, exchangeFailure(KindNoLinkedIdentity, fmt.Errorf("user %s has no twitter provider", userID))
}

func isTwitterProvider(t string) bool {
	return strings.EqualFold(t, "twitter") || strings.EqualFold(t, "x")
}
