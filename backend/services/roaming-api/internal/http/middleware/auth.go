package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"chargenet/backend/services/roaming-api/internal/auth"
)

type contextKey string

const (
	subjectKey       contextKey = "subject"
	subjectHolderKey contextKey = "subject-holder"
)

// subjectHolder lets outer middlewares see the subject authenticated further down the chain.
type subjectHolder struct {
	subject string
}

// ReadMethods are never authenticated.
var ReadMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	"COUNT":            true,
}

// AuthMiddleware validates HMAC signed JWT bearer tokens on state-changing verbs and stores
// the subject claim in the request context. An empty secret disables the check.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if strings.TrimSpace(secret) == "" {
			return next
		}
		tokens := auth.NewTokenService(secret, 0)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ReadMethods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeDescription(w, http.StatusUnauthorized, "Missing authorization header!")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeDescription(w, http.StatusUnauthorized, "Invalid authorization header!")
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if errors.Is(err, auth.ErrEmptySubject) {
				writeDescription(w, http.StatusUnauthorized, "Token subject missing!")
				return
			}
			if err != nil {
				writeDescription(w, http.StatusUnauthorized, "Invalid token!")
				return
			}

			if holder, ok := r.Context().Value(subjectHolderKey).(*subjectHolder); ok {
				holder.subject = claims.Subject
			}
			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the authenticated caller, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}
