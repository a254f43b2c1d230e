package autohdl

import (
	basehdl "seller_ops/internal/api/base/handler"
	autodto "seller_ops/internal/api/automation/dto"
	"seller_ops/internal/api/automation/models"
	autosvc "seller_ops/internal/api/automation/service"
)

// AutomationActionHandler xử lý CRUD cho automation action
type AutomationActionHandler struct {
	*basehdl.BaseHandler[models.AutomationAction, autodto.CreateAutomationActionInput, autodto.UpdateAutomationActionInput]
}

// NewAutomationActionHandler tạo mới AutomationActionHandler
func NewAutomationActionHandler() (*AutomationActionHandler, error) {
	actionService, err := autosvc.NewAutomationActionService()
	if err != nil {
		return nil, err
	}
	return &AutomationActionHandler{
		BaseHandler: basehdl.NewBaseHandler[models.AutomationAction, autodto.CreateAutomationActionInput, autodto.UpdateAutomationActionInput](actionService),
	}, nil
}
