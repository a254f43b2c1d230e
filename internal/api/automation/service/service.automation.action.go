package autosvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "seller_ops/internal/api/base/service"
	"seller_ops/internal/api/automation/models"
	"seller_ops/internal/common"
	"seller_ops/internal/global"
)

// AutomationActionService quản lý các action cấu hình sẵn
type AutomationActionService struct {
	*basesvc.BaseServiceMongoImpl[models.AutomationAction]
}

// NewAutomationActionService tạo mới AutomationActionService
func NewAutomationActionService() (*AutomationActionService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AutomationActions)
	if !exist {
		return nil, fmt.Errorf("failed to get automation_actions collection: %v", common.ErrNotFound)
	}
	return &AutomationActionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.AutomationAction](collection),
	}, nil
}

// DeleteById override để chặn xóa action đang được automation tham chiếu
func (s *AutomationActionService) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	if err := basesvc.ValidateBeforeDeleteAutomationAction(ctx, id); err != nil {
		return err
	}
	return s.BaseServiceMongoImpl.DeleteById(ctx, id)
}
