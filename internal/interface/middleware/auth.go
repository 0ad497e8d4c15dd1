package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/lumalink/lumalink/pkg/helpers"
	"github.com/lumalink/lumalink/pkg/response"
)

// Auth validates the access token and ensures an active session exists in
// Redis. It sets accountID, accountUsername, accountEmail and isAdmin in the
// Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		key := "account:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.AbortError(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set("accountID", data["account_id"])
		c.Set("accountUsername", data["username"])
		c.Set("accountEmail", data["email"])
		c.Set("isAdmin", data["is_admin"] == "true")
		c.Next()
	}
}

// RequireAdmin must run after Auth; rejects sessions without the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			response.AbortError(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}
