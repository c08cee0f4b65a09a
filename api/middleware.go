package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmcleod/gatehouse/auth"
)

type contextKey int

const userKey contextKey = iota

// AuthMiddleware authenticates requests through the configured strategy
// and stores the resolved user on the request context. Paths on the
// excluded list pass through untouched.
func (a *API) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// When the router is mounted under a prefix, the request path still
		// carries the prefix; the route context holds the path relative to
		// the mount point.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
			path = rctx.RoutePath
		}
		if !RequireAuth(path, a.excluded) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.strategy.ResolveIdentity(r.Context(), r)
		switch {
		case err == nil:
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		case errors.Is(err, errNoCredentials):
			writeError(w, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrInvalidArgument):
			writeError(w, http.StatusForbidden, "invalid credentials")
		default:
			a.logger.Error("resolving identity", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	})
}

func userFromContext(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userKey).(*auth.User)
	return user
}

func (a *API) writeSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	if a.cfg.SessionName == "" {
		return
	}
	cookie := &http.Cookie{
		Name:     a.cfg.SessionName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
	}
	if a.cfg.SessionDuration > 0 {
		cookie.Expires = time.Now().Add(a.cfg.SessionDuration)
	}
	http.SetCookie(w, cookie)
}

func (a *API) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	if a.cfg.SessionName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.SessionName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Forwarded")), "proto=https")
}
