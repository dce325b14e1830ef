package server

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyIntrospection stores the verified token of the request
	ContextKeyIntrospection ContextKey = "introspection"
	// ContextKeyRawToken stores the Bearer token as sent
	ContextKeyRawToken ContextKey = "raw_token"
)

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeJSONError(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				writeJSONError(w, "Empty token", http.StatusUnauthorized)
				return
			}

			introspection, err := s.tokens.Introspect(token)
			if err != nil || !introspection.Active {
				s.log.Debug().Err(err).Msg("rejected bearer token")
				writeJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIntrospection, introspection)
			ctx = context.WithValue(ctx, ContextKeyRawToken, token)
			next(w, r.WithContext(ctx))
		}
	}
}
