// Package router đăng ký các route thuộc domain command: vòng đời lệnh và file đính kèm.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	cmdhdl "seller_ops/internal/api/command/handler"
	cmdsvc "seller_ops/internal/api/command/service"
	"seller_ops/internal/api/middleware"
	apirouter "seller_ops/internal/api/router"
)

// Register trả về RegisterFunc đăng ký các route command lên v1.
// CommandService nhận interpreter và executor registry từ lúc khởi động
// (mock hay real tùy init mode) nên được inject từ ngoài vào.
func Register(commandService *cmdsvc.CommandService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		commandHandler, err := cmdhdl.NewCommandHandler(commandService)
		if err != nil {
			return fmt.Errorf("create command handler: %w", err)
		}
		// Command chỉ cho đọc qua CRUD - mọi thay đổi trạng thái đi qua
		// các endpoint vòng đời bên dưới
		r.RegisterCRUDRoutes(v1, "/commands", commandHandler, apirouter.ReadOnlyConfig)

		authMiddleware := middleware.AuthMiddleware()
		apirouter.RegisterRouteWithMiddleware(v1, "/commands", "POST", "/submit", []fiber.Handler{authMiddleware}, commandHandler.Submit)
		apirouter.RegisterRouteWithMiddleware(v1, "/commands", "POST", "/:id/confirm", []fiber.Handler{authMiddleware}, commandHandler.Confirm)
		apirouter.RegisterRouteWithMiddleware(v1, "/commands", "POST", "/:id/cancel", []fiber.Handler{authMiddleware}, commandHandler.Cancel)
		apirouter.RegisterRouteWithMiddleware(v1, "/commands", "GET", "/:id/poll", []fiber.Handler{authMiddleware}, commandHandler.Poll)
		apirouter.RegisterRouteWithMiddleware(v1, "/commands", "GET", "/:id/wait", []fiber.Handler{authMiddleware}, commandHandler.Wait)
		apirouter.RegisterRouteWithMiddleware(v1, "/commands", "POST", "/release-stuck", []fiber.Handler{authMiddleware}, commandHandler.ReleaseStuck)

		attachmentHandler, err := cmdhdl.NewCommandAttachmentHandler()
		if err != nil {
			return fmt.Errorf("create command attachment handler: %w", err)
		}
		r.RegisterCRUDRoutes(v1, "/command-attachments", attachmentHandler, apirouter.ReadWriteConfig)

		return nil
	}
}
