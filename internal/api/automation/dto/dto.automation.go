package autodto

import (
	"seller_ops/internal/api/automation/models"
)

// CreateAutomationInput dữ liệu đầu vào khi tạo automation.
// Automation tạo mới luôn inactive - bật qua endpoint /activate.
type CreateAutomationInput struct {
	Name        string              `json:"name" validate:"required" maxLength:"200" transform:"map=Name"`
	Category    string              `json:"category,omitempty" transform:"map=Category"`
	Trigger     models.Trigger      `json:"trigger" validate:"required" transform:"map=Trigger"`
	ActionChain []models.ChainEntry `json:"actionChain,omitempty" validate:"omitempty,unique=Order" transform:"map=ActionChain"`
}

// UpdateAutomationInput dữ liệu cập nhật automation.
// Trigger là partial-update: không gửi thì giữ nguyên, gửi thì thay cả trigger.
type UpdateAutomationInput struct {
	Name        string              `json:"name,omitempty" maxLength:"200" transform:"map=Name"`
	Category    string              `json:"category,omitempty" transform:"map=Category"`
	Trigger     models.Trigger      `json:"trigger,omitempty" transform:"map=Trigger"`
	ActionChain []models.ChainEntry `json:"actionChain,omitempty" validate:"omitempty,unique=Order" transform:"map=ActionChain"`
}

// SetActiveInput bật/tắt automation
type SetActiveInput struct {
	IsActive bool `json:"isActive"`
}

// CreateAutomationActionInput dữ liệu đầu vào khi tạo automation action
type CreateAutomationActionInput struct {
	Name        string                 `json:"name" validate:"required" maxLength:"200" transform:"map=Name"`
	Kind        string                 `json:"kind" validate:"required" transform:"map=Kind"`
	Title       string                 `json:"title,omitempty" transform:"map=Title"`
	Description string                 `json:"description,omitempty" transform:"map=Description"`
	Platform    string                 `json:"platform,omitempty" transform:"map=Platform"`
	Params      map[string]interface{} `json:"params,omitempty" transform:"map=Params"`
}

// UpdateAutomationActionInput dữ liệu cập nhật automation action
type UpdateAutomationActionInput struct {
	Name        string                 `json:"name,omitempty" maxLength:"200" transform:"map=Name"`
	Title       string                 `json:"title,omitempty" transform:"map=Title"`
	Description string                 `json:"description,omitempty" transform:"map=Description"`
	Params      map[string]interface{} `json:"params,omitempty" transform:"map=Params"`
}
