package middleware

import (
	"strings"

	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证门卫：优先取会话Cookie，其次 Authorization 头。
// 没有或无效一律 401，后面的处理器只需从上下文取用户名。
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(util.SessionCookie)

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
