package middleware

import (
	"loyalty_rewards/pkg/response"
	"loyalty_rewards/pkg/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const staffShopKey = "staffShop"

// StaffAuthMiddleware 员工令牌认证（可选）。
// 未携带 Authorization 时直接放行，由 handler 走 secret 校验；携带但无效时返回 401
func StaffAuthMiddleware(signingKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			return
		}

		claims, err := utils.ParseStaffToken(signingKey, strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			return
		}

		c.Set(staffShopKey, claims.ShopSlug)
		c.Next()
	}
}

// StaffShop 返回员工令牌绑定的门店
func StaffShop(c *gin.Context) (string, bool) {
	v, ok := c.Get(staffShopKey)
	if !ok {
		return "", false
	}
	slug, ok := v.(string)
	return slug, ok && slug != ""
}
