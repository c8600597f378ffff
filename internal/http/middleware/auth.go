package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/placeshare-backend/internal/http/response"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
	"github.com/yungbote/placeshare-backend/internal/requestdata"
	"github.com/yungbote/placeshare-backend/internal/services"
)

// RequireAuth verifies the bearer token and attaches the authenticated
// identity to the request context. Requests without a valid token are
// rejected before any handler runs.
func RequireAuth(log *logger.Logger, authService services.AuthService) gin.HandlerFunc {
	mwLog := log.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		tokenString, err := extractBearer(c.GetHeader("Authorization"))
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		userID, email, err := authService.VerifyToken(tokenString)
		if err != nil {
			mwLog.Debug("token rejected", "error", err)
			response.Fail(c, err)
			c.Abort()
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			TokenString: tokenString,
			UserID:      userID,
			Email:       email,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("missing Authorization header: %w", pkgerrors.ErrUnauthorized)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("malformed Authorization header: %w", pkgerrors.ErrUnauthorized)
	}
	return strings.TrimSpace(parts[1]), nil
}
