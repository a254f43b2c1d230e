// Package router đăng ký các route thuộc domain automation: automations và automation actions.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	autohdl "seller_ops/internal/api/automation/handler"
	autosvc "seller_ops/internal/api/automation/service"
	"seller_ops/internal/api/middleware"
	apirouter "seller_ops/internal/api/router"
)

// Register trả về RegisterFunc đăng ký các route automation lên v1.
func Register(automationService *autosvc.AutomationService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		automationHandler, err := autohdl.NewAutomationHandler(automationService)
		if err != nil {
			return fmt.Errorf("create automation handler: %w", err)
		}
		r.RegisterCRUDRoutes(v1, "/automations", automationHandler, apirouter.ReadWriteConfig)

		authMiddleware := middleware.AuthMiddleware()
		apirouter.RegisterRouteWithMiddleware(v1, "/automations", "POST", "/:id/set-active", []fiber.Handler{authMiddleware}, automationHandler.SetActive)
		apirouter.RegisterRouteWithMiddleware(v1, "/automations", "POST", "/:id/run-now", []fiber.Handler{authMiddleware}, automationHandler.RunNow)
		apirouter.RegisterRouteWithMiddleware(v1, "/automations", "GET", "/:id/next-run", []fiber.Handler{authMiddleware}, automationHandler.NextRunPreview)

		actionHandler, err := autohdl.NewAutomationActionHandler()
		if err != nil {
			return fmt.Errorf("create automation action handler: %w", err)
		}
		r.RegisterCRUDRoutes(v1, "/automation-actions", actionHandler, apirouter.ReadWriteConfig)

		return nil
	}
}
