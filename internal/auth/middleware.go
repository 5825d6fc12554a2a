package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
)

type ctxKey struct{}

// WithClaims returns ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFrom returns the claims placed by Middleware, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}

// Middleware parses an optional "Authorization: Bearer <access>" header.
// Requests without the header, or using another scheme, pass through
// anonymously; a bearer header with a missing or invalid token is
// rejected with 401.
func Middleware(svc *Service, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) == 0 || !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}
			if len(parts) != 2 {
				httpx.WriteError(w, logger, apperr.Unauthorized("Authorization header must contain two space-delimited values"))
				return
			}
			c, err := svc.ParseAccess(parts[1])
			if err != nil {
				httpx.WriteError(w, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), c)))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ClaimsFrom(r.Context()); !ok {
				httpx.WriteError(w, logger, apperr.Unauthorized("Authentication credentials were not provided."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
