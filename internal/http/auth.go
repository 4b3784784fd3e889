package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mwestbrook/signoff/internal/http/request"
	"github.com/mwestbrook/signoff/internal/viewer"
)

// Claims carries the wallet address the token was issued for.
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// ViewerResolver turns an authenticated address into a full viewer,
// role included.
type ViewerResolver interface {
	Viewer(ctx context.Context, address string) (viewer.Viewer, error)
}

// Authentication validates the bearer token and attaches the resolved
// viewer to the request context. SSE clients cannot set headers, so a
// "token" query parameter is accepted as a fallback.
func Authentication(secret string, resolver ViewerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}

			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}

				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.Address == "" {
				slog.Warn("rejected token", "error", err)
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)

				return
			}

			v, err := resolver.Viewer(r.Context(), claims.Address)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithViewer(r.Context(), v)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.Split(h, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}

		return ""
	}

	return r.URL.Query().Get("token")
}
