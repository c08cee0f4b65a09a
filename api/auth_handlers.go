package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmcleod/gatehouse/auth"
)

const maxAuthBodySize = 1 << 20

func decodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return v, false
	}
	return v, true
}

// Register handles POST /auth/register.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[RegisterRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	user, err := a.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyExists) {
			writeError(w, http.StatusBadRequest, "email already registered")
			return
		}
		mapError(w, err)
		return
	}

	a.logger.Info("user registered", "email", user.Email, "user_id", user.ID)
	writeJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Email: user.Email})
}

// Login handles POST /auth/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[LoginRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.svc.UserByCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		mapError(w, err)
		return
	}

	sessionID, err := a.strategy.CreateSession(r.Context(), user)
	if err != nil {
		mapError(w, err)
		return
	}
	if sessionID != "" {
		a.writeSessionCookie(w, r, sessionID)
	}

	a.logger.Info("user logged in", "email", user.Email, "user_id", user.ID)
	writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}

// Logout handles POST /auth/logout.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.strategy.DestroySession(r.Context(), r); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		mapError(w, err)
		return
	}
	a.clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser handles GET /users/me.
func (a *API) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}

// RequestResetToken handles POST /auth/reset_password.
func (a *API) RequestResetToken(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[ResetTokenRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := a.svc.RequestResetToken(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, http.StatusForbidden, "unknown email")
			return
		}
		mapError(w, err)
		return
	}

	a.logger.Info("reset token issued", "email", req.Email)
	writeJSON(w, http.StatusOK, ResetTokenResponse{Email: req.Email, ResetToken: token})
}

// UpdatePassword handles PUT /auth/reset_password.
func (a *API) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[UpdatePasswordRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.ResetToken == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "reset_token and new_password are required")
		return
	}

	if err := a.svc.ConsumeResetToken(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, http.StatusForbidden, "invalid reset token")
			return
		}
		mapError(w, err)
		return
	}

	a.logger.Info("password updated", "email", req.Email)
	writeJSON(w, http.StatusOK, MessageResponse{Email: req.Email, Message: "Password updated"})
}
