package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/auth"
	"github.com/KaduPegasus/Frango-supremo/internal/enum"
)

// PassphraseChecker is satisfied by *auth.Passphrase.
type PassphraseChecker interface {
	Check(candidate string) bool
}

// AuthHandler exchanges the admin passphrase for tokens.
type AuthHandler struct {
	passphrase PassphraseChecker
	jwtSecret  string
	tokenTTL   time.Duration
	log        logrus.FieldLogger
}

func NewAuthHandler(passphrase PassphraseChecker, jwtSecret string, tokenTTL time.Duration, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{passphrase: passphrase, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

// --- Request / Response types ---

type loginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	Role         string `json:"role"`
	ExpiresIn    int64  `json:"expires_in"`
}

// --- Handlers ---

// Login checks the shared admin passphrase and opens a new operator
// session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if !h.passphrase.Check(req.Passphrase) {
		h.log.WithField("remote_addr", r.RemoteAddr).Warn("admin login rejected")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	h.respondWithTokens(w, uuid.NewString())
}

// Refresh exchanges a valid refresh token for a new token pair on the
// same operator session.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessionID, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}

	h.respondWithTokens(w, sessionID)
}

// --- Helpers ---

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, sessionID string) {
	accessToken, err := auth.GenerateToken(h.jwtSecret, sessionID, enum.RoleAdmin, h.tokenTTL)
	if err != nil {
		writeError(w, h.log, "generate access token", err)
		return
	}

	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, sessionID)
	if err != nil {
		writeError(w, h.log, "generate refresh token", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
		Role:         enum.RoleAdmin,
		ExpiresIn:    int64(h.tokenTTL.Seconds()),
	})
}
