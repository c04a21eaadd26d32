package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"
)

// Key type for context
type contextKey string

const sessionContextKey = contextKey("session")

// TokenVerifier checks a raw session token.
type TokenVerifier interface {
	Verify(raw string) (*utils.Identity, error)
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *services.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFrom returns the session resolved for the request, or nil.
func SessionFrom(ctx context.Context) *services.Session {
	s, _ := ctx.Value(sessionContextKey).(*services.Session)
	return s
}

// Session resolves the session cookie once per API request. Requests without
// a valid token proceed anonymously; an invalid token is cleared from the
// client.
func Session(tokens TokenVerifier, cookie utils.SessionCookie, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := cookie.Read(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := tokens.Verify(raw)
			if errors.Is(err, utils.ErrMissingSecret) {
				log.Error("session secret not configured")
				writeMessage(w, http.StatusInternalServerError, "Server configuration error")
				return
			}
			if err != nil {
				log.Debug("session token rejected", "path", r.URL.Path, "error", err)
				cookie.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			s := &services.Session{UserID: identity.UserID, Role: identity.Role, Name: identity.Name}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireRole rejects requests whose session does not satisfy role.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := services.Authorize(SessionFrom(r.Context()), role)
			switch {
			case errors.Is(err, services.ErrUnauthenticated):
				writeMessage(w, http.StatusUnauthorized, "Authentication required")
				return
			case errors.Is(err, services.ErrForbidden):
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
