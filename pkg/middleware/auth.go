package middleware

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/pkg/security"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenResolver is implemented by repository.Tokens
type TokenResolver interface {
	Resolve(ctx context.Context, raw string) (*model.User, error)
}

// NewAuthMiddleware authenticates requests carrying an
// "Authorization: Bearer <token>" or "Authorization: Token <token>" header.
// On success the user is stored as "user" and its ID as "userID".
func NewAuthMiddleware(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authentication credentials were not provided",
				"requestID": requestID,
			})
			return
		}

		user, err := tokens.Resolve(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, security.ErrTokenInvalid) ||
				errors.Is(err, repository.ErrTokenNotFound) ||
				errors.Is(err, repository.ErrUserNotFound) ||
				errors.Is(err, repository.ErrUserInactive) {
				zap.L().Debug("Rejected token", zap.Error(err), zap.String("requestID", requestID))

				c.Header("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Invalid token",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve auth token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}

	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}

	return token, true
}
