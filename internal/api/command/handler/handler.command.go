package cmdhdl

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "seller_ops/internal/api/base/handler"
	cmddto "seller_ops/internal/api/command/dto"
	"seller_ops/internal/api/command/models"
	cmdsvc "seller_ops/internal/api/command/service"
	"seller_ops/internal/common"
	"seller_ops/internal/global"
	"seller_ops/internal/logger"
	"seller_ops/internal/worker"
)

// CommandHandler xử lý các request vòng đời command
type CommandHandler struct {
	*basehdl.BaseHandler[models.Command, cmddto.CreateCommandInput, cmddto.UpdateCommandInput]
	CommandService *cmdsvc.CommandService
}

// NewCommandHandler tạo mới CommandHandler
func NewCommandHandler(commandService *cmdsvc.CommandService) (*CommandHandler, error) {
	if commandService == nil {
		return nil, fmt.Errorf("commandService không được nil")
	}
	hdl := &CommandHandler{
		CommandService: commandService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[models.Command, cmddto.CreateCommandInput, cmddto.UpdateCommandInput](commandService)
	return hdl, nil
}

// getUserID lấy user id từ context (đã được auth middleware set)
func getUserID(c fiber.Ctx) primitive.ObjectID {
	if userIDStr, ok := c.Locals("user_id").(string); ok && userIDStr != "" {
		if id, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
			return id
		}
	}
	return primitive.NilObjectID
}

// Submit tạo command mới từ câu lệnh ngôn ngữ tự nhiên.
// POST /api/v1/commands/submit
func (h *CommandHandler) Submit(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID := h.GetActiveOrganizationID(c)
		if orgID == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Không có organization context", common.StatusUnauthorized, nil))
			return nil
		}

		var input cmddto.CommandSubmitInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		cmd, err := h.CommandService.Submit(c.Context(), *orgID, getUserID(c), &input)
		if err == nil && cmd != nil {
			logger.LogCommand("submit", cmd.ID.Hex(), c, map[string]interface{}{
				"status": cmd.Status,
			})
		}
		h.HandleResponse(c, cmd, err)
		return nil
	})
}

// Confirm xác nhận và thực thi command đang chờ.
// POST /api/v1/commands/:id/confirm
func (h *CommandHandler) Confirm(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID := h.GetActiveOrganizationID(c)
		if orgID == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Không có organization context", common.StatusUnauthorized, nil))
			return nil
		}

		commandID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID lệnh không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		cmd, err := h.CommandService.Confirm(c.Context(), commandID, *orgID)
		if err == nil && cmd != nil {
			logger.LogCommand("confirm", cmd.ID.Hex(), c, map[string]interface{}{
				"status": cmd.Status,
			})
		}
		h.HandleResponse(c, cmd, err)
		return nil
	})
}

// Cancel hủy command đang chờ xác nhận hoặc đang phân tích.
// POST /api/v1/commands/:id/cancel
func (h *CommandHandler) Cancel(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID := h.GetActiveOrganizationID(c)
		if orgID == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Không có organization context", common.StatusUnauthorized, nil))
			return nil
		}

		commandID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID lệnh không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		// Body là tùy chọn - không có body thì dùng lý do mặc định
		var input cmddto.CommandCancelInput
		_ = h.ParseRequestBody(c, &input)

		cmd, err := h.CommandService.Cancel(c.Context(), commandID, *orgID, input.Reason)
		if err == nil && cmd != nil {
			logger.LogCommand("cancel", cmd.ID.Hex(), c, nil)
		}
		h.HandleResponse(c, cmd, err)
		return nil
	})
}

// Poll đọc trạng thái hiện tại của command, dùng bởi polling loop phía client.
// GET /api/v1/commands/:id/poll
func (h *CommandHandler) Poll(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID := h.GetActiveOrganizationID(c)
		if orgID == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Không có organization context", common.StatusUnauthorized, nil))
			return nil
		}

		commandID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID lệnh không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		cmd, err := h.CommandService.Poll(c.Context(), commandID, *orgID)
		h.HandleResponse(c, cmd, err)
		return nil
	})
}

// Wait block cho đến khi command đạt trạng thái terminal rồi trả về bản ghi,
// tiện cho client không muốn tự chạy polling loop. Giới hạn số lần đọc lấy
// từ config nên request không treo vô hạn.
// GET /api/v1/commands/:id/wait
func (h *CommandHandler) Wait(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID := h.GetActiveOrganizationID(c)
		if orgID == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Không có organization context", common.StatusUnauthorized, nil))
			return nil
		}

		commandID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID lệnh không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		cfg := global.MongoDB_ServerConfig
		pollWorker := worker.NewCommandPollWorker(
			h.CommandService,
			time.Duration(cfg.PollIntervalSeconds)*time.Second,
			cfg.PollMaxAttempts,
		)

		cmd, err := pollWorker.Poll(c.Context(), commandID, *orgID)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeBusinessOperation,
				"Không theo dõi được trạng thái lệnh",
				common.StatusInternalServerError,
				err,
			))
			return nil
		}
		h.HandleResponse(c, cmd, nil)
		return nil
	})
}

// ReleaseStuck giải phóng các command kẹt ở trạng thái executing quá lâu.
// POST /api/v1/commands/release-stuck
func (h *CommandHandler) ReleaseStuck(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		stuckMinutes := fiber.Query[int](c, "stuckMinutes", 0)

		releasedCount, err := h.CommandService.ReleaseStuckCommands(c.Context(), stuckMinutes)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi khi giải phóng lệnh bị kẹt: %v", err),
				common.StatusInternalServerError,
				err,
			))
			return nil
		}

		h.HandleResponse(c, map[string]interface{}{
			"releasedCount": releasedCount,
			"message":       fmt.Sprintf("Đã giải phóng %d lệnh bị kẹt", releasedCount),
		}, nil)
		return nil
	})
}
