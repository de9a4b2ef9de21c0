package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/prm/internal/auth/application"
)

// BearerToken 提取 Authorization 头中的 Bearer 令牌
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware 解析 Bearer 令牌并把用户 id 写入请求上下文
// 后续处理器通过 c.GetString("user_id") 显式取得身份
func AuthMiddleware(service *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := service.ValidateToken(c.Request.Context(), BearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
