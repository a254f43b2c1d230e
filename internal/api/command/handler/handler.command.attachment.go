package cmdhdl

import (
	basehdl "seller_ops/internal/api/base/handler"
	cmddto "seller_ops/internal/api/command/dto"
	"seller_ops/internal/api/command/models"
	cmdsvc "seller_ops/internal/api/command/service"
)

// CommandAttachmentHandler xử lý CRUD cho file đính kèm của command
type CommandAttachmentHandler struct {
	*basehdl.BaseHandler[models.CommandAttachment, cmddto.CreateCommandAttachmentInput, cmddto.UpdateCommandAttachmentInput]
}

// NewCommandAttachmentHandler tạo mới CommandAttachmentHandler
func NewCommandAttachmentHandler() (*CommandAttachmentHandler, error) {
	attachmentService, err := cmdsvc.NewCommandAttachmentService()
	if err != nil {
		return nil, err
	}
	return &CommandAttachmentHandler{
		BaseHandler: basehdl.NewBaseHandler[models.CommandAttachment, cmddto.CreateCommandAttachmentInput, cmddto.UpdateCommandAttachmentInput](attachmentService),
	}, nil
}
