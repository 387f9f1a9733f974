package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware restores the session behind a token into the request
// context. Requests without a token pass through anonymous; route handlers
// decide whether that is acceptable.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			auth := c.Request.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			c.Next()
			return
		}

		var session models.Session
		exists, err := config.GetRedisObject("Token:"+token, &session)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, session.Email)
		ctx = utils.SetUserIdInContext(ctx, session.UserId)
		ctx = utils.SetRoleInContext(ctx, string(session.Role))
		ctx = utils.SetSiteInContext(ctx, string(session.Site))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
