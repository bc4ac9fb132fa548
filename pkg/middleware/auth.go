package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/pkg/apperror"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

type contextKey string

const userContextKey contextKey = "user"

var errNoToken = apperror.Unauthorized("Unauthorized - No token provided")

// SessionResolver turns a session token into the user it belongs to.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid session cookie and stores
// the resolved user in the request context.
func AuthMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, errNoToken)
				return
			}

			user, err := resolver.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				appErr, ok := apperror.As(err)
				if !ok {
					logger.Log.WithError(err).Error("Failed to resolve session")
					appErr = apperror.Internal(err)
				} else {
					logger.Log.WithError(err).Warn("Session rejected")
				}
				writeError(w, appErr)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, or nil outside the guard.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func writeError(w http.ResponseWriter, appErr *apperror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Kind.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]string{"message": appErr.Message})
}
