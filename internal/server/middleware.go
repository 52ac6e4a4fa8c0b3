package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rgehrsitz/lensquote/internal/auth"
	"github.com/rgehrsitz/lensquote/internal/domain"
)

type ctxKey int

const (
	emailKey ctxKey = iota
	allowedKey
)

// authMiddleware verifies the bearer token. Tokens for emails outside the
// allow-list pass through with allowed=false so the session can refuse sign-in.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		email, allowed, err := s.Gate.Authorize(token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			writeError(w, http.StatusInternalServerError, "authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), emailKey, email)
		ctx = context.WithValue(ctx, allowedKey, allowed)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestEmail(r *http.Request) string {
	email, _ := r.Context().Value(emailKey).(string)
	return email
}

func requestAllowed(r *http.Request) bool {
	allowed, _ := r.Context().Value(allowedKey).(bool)
	return allowed
}
