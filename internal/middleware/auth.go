package middleware

import (
	"sphereview_backend/internal/config"
	"sphereview_backend/internal/util"
	"sphereview_backend/pkg/logger"
	"sphereview_backend/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func parseClaims(cfg *config.Config, token string) (*util.Claims, error) {
	return util.ParseJWT(token, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
}

// AuthMiddleware 必须登录，令牌由外部身份服务签发
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := parseClaims(cfg, tokenString)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选登录，令牌无效时按匿名处理
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := parseClaims(cfg, tokenString); err == nil {
				c.Set(util.ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

// RateLimitKey 已登录按用户，否则按IP
func RateLimitKey(c *gin.Context) string {
	if claims := util.GetUserFromContext(c); claims != nil {
		return "user:" + claims.UserID()
	}
	return "ip:" + security.ClientIPKey(c)
}
