package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"autocontract/internal/ports"
	"autocontract/internal/repository"
)

type TokenRepo interface {
	FindByPlainToken(ctx context.Context, plainToken string) (*repository.APIToken, error)
}

// TokenMiddleware requires a valid API token in the Authorization header
// ("Bearer ...") or in the token query parameter. Paths in open skip the check.
func TokenMiddleware(tokenRepo TokenRepo, open ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// allow OPTIONS (CORS preflight) to pass through
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			for _, p := range open {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			var tok *repository.APIToken
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				if plain := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); plain != "" {
					t, err := tokenRepo.FindByPlainToken(r.Context(), plain)
					if err == nil {
						tok = t
					} else {
						log.Printf("[AUTH] token lookup (header) error: %v", err)
					}
				}
			}

			if tok == nil {
				if plain := r.URL.Query().Get("token"); plain != "" {
					t, err := tokenRepo.FindByPlainToken(r.Context(), plain)
					if err == nil {
						tok = t
					} else {
						log.Printf("[AUTH] token lookup (query) error: %v", err)
					}
				}
			}

			if tok == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if tok.ExpiresAt != nil && tok.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ports.CtxOperator, tok.Operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetOperator(ctx context.Context) (string, error) {
	v := ports.Operator(ctx)
	if v == "" {
		return "", errors.New("operator not found in context")
	}
	return v, nil
}
