package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"lancasterhub/internal/auth"
	"lancasterhub/internal/middleware"
	"lancasterhub/internal/session"
)

// Authenticator checks the admin credential.
type Authenticator interface {
	Verify(password, code string) error
	TOTPEnabled() bool
	ProvisioningQR() ([]byte, error)
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	authn  Authenticator
	tokens session.Tokens
}

// NewAuth creates a new Auth handler group.
func NewAuth(authn Authenticator, tokens session.Tokens) *Auth {
	return &Auth{
		authn:  authn,
		tokens: tokens,
	}
}

// Login exchanges the admin password (and TOTP code, when enabled) for a
// bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	switch err := a.authn.Verify(req.Password, req.Code); {
	case errors.Is(err, auth.ErrCodeRequired):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":               "two-factor code required",
			"two_factor_required": true,
		})
		return
	case err != nil:
		slog.Warn("admin login failed", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	data := &session.Data{Subject: "admin", TwoFADone: true}
	token, err := a.tokens.Create(r.Context(), data)
	if err != nil {
		slog.Error("create admin token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("admin logged in", "two_factor", a.authn.TOTPEnabled())
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": data.ExpiresAt,
	})
}

// Logout revokes the token the request was authorized with.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromCtx(r.Context()); token != "" {
		if err := a.tokens.Destroy(r.Context(), token); err != nil {
			slog.Error("revoke admin token failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// TwoFAQR serves the authenticator enrollment QR code as a PNG.
func (a *Auth) TwoFAQR(w http.ResponseWriter, r *http.Request) {
	png, err := a.authn.ProvisioningQR()
	if errors.Is(err, auth.ErrTOTPDisabled) {
		writeError(w, http.StatusNotFound, "two-factor authentication is not configured")
		return
	}
	if err != nil {
		slog.Error("render totp qr failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
