package autodto

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/automation/models"
	"seller_ops/internal/global"
)

func validTrigger() models.Trigger {
	return models.Trigger{
		Type: models.TriggerTypeSchedule,
		ScheduleConfig: &models.ScheduleConfig{
			Frequency: models.FrequencyHourly,
		},
	}
}

func TestCreateAutomationInput_DuplicateChainOrderRejected(t *testing.T) {
	global.InitValidator()

	input := CreateAutomationInput{
		Name:    "giảm giá cuối tuần",
		Trigger: validTrigger(),
		ActionChain: []models.ChainEntry{
			{ActionID: primitive.NewObjectID(), Order: 1},
			{ActionID: primitive.NewObjectID(), Order: 1},
		},
	}

	if err := global.Validate.Struct(&input); err == nil {
		t.Error("actionChain với order trùng phải bị từ chối lúc validate input")
	}
}

func TestCreateAutomationInput_UniqueChainOrderAccepted(t *testing.T) {
	global.InitValidator()

	input := CreateAutomationInput{
		Name:    "giảm giá cuối tuần",
		Trigger: validTrigger(),
		ActionChain: []models.ChainEntry{
			{ActionID: primitive.NewObjectID(), Order: 1},
			{ActionID: primitive.NewObjectID(), Order: 2},
		},
	}

	if err := global.Validate.Struct(&input); err != nil {
		t.Errorf("actionChain với order duy nhất phải hợp lệ, nhận được: %v", err)
	}
}

func TestUpdateAutomationInput_DuplicateChainOrderRejected(t *testing.T) {
	global.InitValidator()

	input := UpdateAutomationInput{
		ActionChain: []models.ChainEntry{
			{ActionID: primitive.NewObjectID(), Order: 3},
			{ActionID: primitive.NewObjectID(), Order: 3},
		},
	}

	if err := global.Validate.Struct(&input); err == nil {
		t.Error("actionChain với order trùng phải bị từ chối lúc validate input")
	}
}

func TestUpdateAutomationInput_EmptyChainAccepted(t *testing.T) {
	global.InitValidator()

	input := UpdateAutomationInput{Name: "đổi tên"}
	if err := global.Validate.Struct(&input); err != nil {
		t.Errorf("update không gửi actionChain phải hợp lệ, nhận được: %v", err)
	}
}
