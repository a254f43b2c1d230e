// package autosvc chứa logic automation: schedule resolver, orchestrator
// chạy action chain và thống kê tích lũy.
package autosvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "seller_ops/internal/api/base/service"
	"seller_ops/internal/api/automation/models"
	"seller_ops/internal/common"
	"seller_ops/internal/global"
	"seller_ops/internal/platform"
	"seller_ops/internal/utility"
)

// AutomationService quản lý automation và điều phối các lần chạy.
type AutomationService struct {
	*basesvc.BaseServiceMongoImpl[models.Automation]
	actionService *basesvc.BaseServiceMongoImpl[models.AutomationAction]
	executors     *platform.ExecutorRegistry
}

// NewAutomationService tạo mới AutomationService với executor registry được inject.
func NewAutomationService(executors *platform.ExecutorRegistry) (*AutomationService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Automations)
	if !exist {
		return nil, fmt.Errorf("failed to get automations collection: %v", common.ErrNotFound)
	}
	actionCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AutomationActions)
	if !exist {
		return nil, fmt.Errorf("failed to get automation_actions collection: %v", common.ErrNotFound)
	}
	return &AutomationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Automation](collection),
		actionService:        basesvc.NewBaseServiceMongo[models.AutomationAction](actionCollection),
		executors:            executors,
	}, nil
}

// SetActive bật/tắt automation và tính lại nextRunAt.
// Tắt thì nextRunAt về 0 để worker bỏ qua.
func (s *AutomationService) SetActive(ctx context.Context, id primitive.ObjectID, orgID primitive.ObjectID, active bool) (*models.Automation, error) {
	automation, err := s.findScoped(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	nextRunAt := int64(0)
	if active {
		nextRunAt = resolveNextRunMilli(&automation.Trigger, time.Now())
	}

	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, bson.M{
		"isActive":  active,
		"nextRunAt": nextRunAt,
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// PreviewNextRun tính thời điểm chạy kế tiếp mà không ghi gì vào database.
// nil = trigger thiếu cấu hình, không lên lịch được.
func (s *AutomationService) PreviewNextRun(ctx context.Context, id primitive.ObjectID, orgID primitive.ObjectID) (*time.Time, error) {
	automation, err := s.findScoped(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	if automation.Trigger.Type != models.TriggerTypeSchedule {
		return nil, nil
	}
	return NextRun(automation.Trigger.ScheduleConfig, time.Now()), nil
}

// resolveNextRunMilli resolve nextRunAt (UnixMilli) cho trigger, 0 khi không tính được.
func resolveNextRunMilli(trigger *models.Trigger, now time.Time) int64 {
	if trigger == nil || trigger.Type != models.TriggerTypeSchedule {
		return 0
	}
	next := NextRun(trigger.ScheduleConfig, now)
	if next == nil {
		return 0
	}
	return utility.UnixMilli(*next)
}

// findScoped tìm automation theo id trong phạm vi organization.
func (s *AutomationService) findScoped(ctx context.Context, id primitive.ObjectID, orgID primitive.ObjectID) (*models.Automation, error) {
	filter := bson.M{"_id": id, "ownerOrganizationId": orgID}
	automation, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return &automation, nil
}
