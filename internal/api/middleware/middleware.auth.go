package middleware

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"seller_ops/internal/common"
	"seller_ops/internal/global"
	"seller_ops/internal/logger"
	"seller_ops/internal/utility"
)

// AuthMiddleware middleware xác thực JWT cho Fiber.
// Token được ký bởi hệ thống danh tính của dashboard, chứa userId và organizationId.
// Sau khi validate, middleware lưu user_id và organization_id vào context
// để các handler dùng cho phân quyền dữ liệu theo tổ chức.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		claims, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, parts[1])
		if err != nil {
			// Phân biệt token hết hạn với token sai để client biết cần đăng nhập lại
			if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
				HandleErrorResponse(c, common.ErrTokenExpired)
				return nil
			}
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid token")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if claims.UserID == "" || claims.OrganizationID == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Lưu thông tin user và organization vào context
		c.Locals("user_id", claims.UserID)
		c.Locals("organization_id", claims.OrganizationID)

		return c.Next()
	}
}
