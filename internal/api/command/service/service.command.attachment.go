package cmdsvc

import (
	"fmt"

	basesvc "seller_ops/internal/api/base/service"
	"seller_ops/internal/api/command/models"
	"seller_ops/internal/common"
	"seller_ops/internal/global"
)

// CommandAttachmentService quản lý file đính kèm của command
type CommandAttachmentService struct {
	*basesvc.BaseServiceMongoImpl[models.CommandAttachment]
}

// NewCommandAttachmentService tạo mới CommandAttachmentService
func NewCommandAttachmentService() (*CommandAttachmentService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.CommandAttachments)
	if !exist {
		return nil, fmt.Errorf("failed to get command_attachments collection: %v", common.ErrNotFound)
	}
	return &CommandAttachmentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.CommandAttachment](collection),
	}, nil
}
