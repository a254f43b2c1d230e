package autohdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	autodto "seller_ops/internal/api/automation/dto"
	"seller_ops/internal/api/automation/models"
	autosvc "seller_ops/internal/api/automation/service"
	basehdl "seller_ops/internal/api/base/handler"
	"seller_ops/internal/common"
	"seller_ops/internal/logger"
)

// AutomationHandler xử lý các request liên quan automation
type AutomationHandler struct {
	*basehdl.BaseHandler[models.Automation, autodto.CreateAutomationInput, autodto.UpdateAutomationInput]
	AutomationService *autosvc.AutomationService
}

// NewAutomationHandler tạo mới AutomationHandler
func NewAutomationHandler(automationService *autosvc.AutomationService) (*AutomationHandler, error) {
	if automationService == nil {
		return nil, fmt.Errorf("automationService không được nil")
	}
	hdl := &AutomationHandler{
		AutomationService: automationService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[models.Automation, autodto.CreateAutomationInput, autodto.UpdateAutomationInput](automationService)
	return hdl, nil
}

// parseScopedID lấy id từ URL và organization từ token, trả lỗi qua HandleResponse.
func (h *AutomationHandler) parseScopedID(c fiber.Ctx) (primitive.ObjectID, *primitive.ObjectID, bool) {
	orgID := h.GetActiveOrganizationID(c)
	if orgID == nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Không có organization context", common.StatusUnauthorized, nil))
		return primitive.NilObjectID, nil, false
	}
	id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID automation không hợp lệ", common.StatusBadRequest, err))
		return primitive.NilObjectID, nil, false
	}
	return id, orgID, true
}

// SetActive bật/tắt automation và tính lại lịch chạy.
// POST /api/v1/automations/:id/set-active
func (h *AutomationHandler) SetActive(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, orgID, ok := h.parseScopedID(c)
		if !ok {
			return nil
		}

		var input autodto.SetActiveInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		automation, err := h.AutomationService.SetActive(c.Context(), id, *orgID, input.IsActive)
		if err == nil && automation != nil {
			action := "deactivate"
			if input.IsActive {
				action = "activate"
			}
			logger.LogAutomation(action, automation.ID.Hex(), c, nil)
		}
		h.HandleResponse(c, automation, err)
		return nil
	})
}

// RunNow chạy automation ngay lập tức, bỏ qua lịch.
// POST /api/v1/automations/:id/run-now
func (h *AutomationHandler) RunNow(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, orgID, ok := h.parseScopedID(c)
		if !ok {
			return nil
		}

		result, err := h.AutomationService.RunNow(c.Context(), id, *orgID)
		if err == nil && result != nil {
			logger.LogAutomation("run_now", id.Hex(), c, map[string]interface{}{
				"status":       result.Status,
				"successCount": result.SuccessCount,
			})
		}
		h.HandleResponse(c, result, err)
		return nil
	})
}

// NextRunPreview xem trước thời điểm chạy kế tiếp mà không ghi database.
// GET /api/v1/automations/:id/next-run
func (h *AutomationHandler) NextRunPreview(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, orgID, ok := h.parseScopedID(c)
		if !ok {
			return nil
		}

		next, err := h.AutomationService.PreviewNextRun(c.Context(), id, *orgID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		response := map[string]interface{}{"schedulable": next != nil}
		if next != nil {
			response["nextRunAt"] = next.UnixMilli()
			response["nextRunTime"] = next.Format("2006-01-02T15:04:05Z07:00")
		}
		h.HandleResponse(c, response, nil)
		return nil
	})
}
