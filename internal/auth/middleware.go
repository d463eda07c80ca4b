package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// UserIDHeader carries the caller identity. It is trusted as asserted.
const UserIDHeader = "X-Sharer-User-Id"

// IdentityRequired is a Gin middleware that reads the caller id from X-Sharer-User-Id.
// Requests without a well-formed UUID are rejected with 400.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
				Error: "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
				Error: "invalid " + UserIDHeader + " header",
			})
			return
		}

		// Store user info into Gin context for later handlers.
		c.Set(userIDKey, id.String())

		c.Next()
	}
}
