package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gironomall-backend/pkg/auth"
	"gironomall-backend/pkg/common"
	pkgerrors "gironomall-backend/pkg/errors"
)

// Authenticate validates the bearer token and attaches the caller identity
// to the request context. A nil validator disables authentication, which is
// the development default when no JWT secret is configured.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError("missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError("invalid authorization header format"))
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError("invalid token"))
				return
			}

			ctx := auth.WithUser(r.Context(), auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
