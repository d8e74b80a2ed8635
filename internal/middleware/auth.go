package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

// OperatorKey carries the authenticated operator name in the request
// context.
const OperatorKey contextKey = "operator"

// AdminAuthMiddleware validates operator bearer tokens on the admin surface
// (import, inventory edits, review moderation). Tokens are HMAC-signed JWTs
// minted out-of-band; there is no user store behind this, just the shared
// secret.
func AdminAuthMiddleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			operator := "operator"
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if sub, err := claims.GetSubject(); err == nil && sub != "" {
					operator = sub
				}
			}

			logger.Debug("Operator authenticated", zap.String("operator", operator))
			ctx := context.WithValue(r.Context(), OperatorKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOperator extracts the operator name from the request context.
func GetOperator(ctx context.Context) (string, bool) {
	operator, ok := ctx.Value(OperatorKey).(string)
	return operator, ok
}
