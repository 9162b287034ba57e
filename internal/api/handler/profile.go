package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maraichr/gradient/internal/identity"
	"github.com/maraichr/gradient/pkg/apierr"
	"github.com/maraichr/gradient/pkg/models"
)

const maxSaveProfileBody = 64 << 10

// SessionExchanger turns a session token into the linked Twitter/X profile.
type SessionExchanger interface {
	Exchange(ctx context.Context, sessionToken string) (models.ExternalProfile, error)
}

// ProfileSaver persists a profile keyed by external user id.
type ProfileSaver interface {
	GetOrCreate(ctx context.Context, ext models.ExternalProfile) (models.Profile, error)
}

type ProfileHandler struct {
	logger    *slog.Logger
	exchanger SessionExchanger
	profiles  ProfileSaver
}

func NewProfileHandler(logger *slog.Logger, ex SessionExchanger, profiles ProfileSaver) *ProfileHandler {
	return &ProfileHandler{logger: logger, exchanger: ex, profiles: profiles}
}

type saveProfileRequest struct {
	SessionToken string `json:"session_token"`
}

type savedProfile struct {
	TwitterHandle string `json:"twitter_handle"`
	DisplayName   string `json:"display_name"`
}

type saveProfileResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Profile savedProfile `json:"profile"`
}

// Save exchanges the frontend's session token for the linked Twitter/X
// profile and stores it, creating or updating the user's single row.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("request_id", newRequestID()))
	r.Body = http.MaxBytesReader(w, r.Body, maxSaveProfileBody)

	var req saveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("save-profile: bad body", slog.String("error", err.Error()))
		writeAPIError(w, logger, apierr.InvalidRequestBody())
		return
	}
	if strings.TrimSpace(req.SessionToken) == "" {
		writeAPIError(w, logger, apierr.SessionTokenRequired())
		return
	}

	ext, err := h.exchanger.Exchange(r.Context(), req.SessionToken)
	if err != nil {
		logger.Warn("save-profile: session exchange failed", slog.String("error", err.Error()))
		writeAPIError(w, logger, exchangeError(err))
		return
	}

	p, err := h.profiles.GetOrCreate(r.Context(), ext)
	if err != nil {
		writeAPIError(w, logger, apierr.ProfileSaveFailed(err))
		return
	}

	logger.Info("save-profile: saved",
		slog.String("user_id", p.UserID),
		slog.String("twitter_handle", p.TwitterHandle))
	writeJSON(w, http.StatusOK, saveProfileResponse{
		Success: true,
		Message: "Profile saved successfully",
		Profile: savedProfile{TwitterHandle: p.TwitterHandle, DisplayName: p.DisplayName},
	})
}

func exchangeError(err error) *apierr.Error {
	switch {
	case errors.Is(err, identity.ErrNoLinkedIdentity):
		return apierr.NoLinkedIdentity()
	case errors.Is(err, identity.ErrInvalidSession):
		return apierr.InvalidSession(err)
	case errors.Is(err, identity.ErrNetwork):
		return apierr.IdentityUnavailable(err)
	default:
		return apierr.InternalError(err)
	}
}
