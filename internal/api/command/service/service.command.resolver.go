package cmdsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/command/models"
	basesvc "seller_ops/internal/api/base/service"
	"seller_ops/internal/global"
	"seller_ops/internal/platform"
	"seller_ops/internal/utility"
)

// AttachmentResolver resolve fileRef của action thành thông tin file thật
// từ collection command_attachments, NGAY TRƯỚC khi thực thi (late-bound).
// File bị xóa giữa lúc interpret và lúc execute sẽ fail đúng action đó,
// không fail cả command.
type AttachmentResolver struct {
	attachmentService *basesvc.BaseServiceMongoImpl[models.CommandAttachment]
	organizationID    primitive.ObjectID
	cache             *utility.Cache
}

// NewAttachmentResolver tạo resolver scoped theo organization.
func NewAttachmentResolver(orgID primitive.ObjectID) (*AttachmentResolver, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.CommandAttachments)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s", global.MongoDB_ColNames.CommandAttachments)
	}
	return &AttachmentResolver{
		attachmentService: basesvc.NewBaseServiceMongo[models.CommandAttachment](col),
		organizationID:    orgID,
		cache:             utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// Close dừng cache cleanup goroutine.
func (r *AttachmentResolver) Close() {
	r.cache.Stop()
}

// Resolve tra fileRef của action, gắn thông tin file vào Params.
// Action không có fileRef được trả về nguyên trạng.
func (r *AttachmentResolver) Resolve(ctx context.Context, action platform.ActionRecord) (platform.ActionRecord, error) {
	if action.FileRef == "" {
		return action, nil
	}

	attachment, err := r.lookupFileRef(ctx, action.FileRef)
	if err != nil {
		return action, fmt.Errorf("không resolve được file '%s': %s", action.FileRef, err.Error())
	}

	if action.Params == nil {
		action.Params = map[string]interface{}{}
	}
	action.Params["file"] = map[string]interface{}{
		"fileRef":   attachment.FileRef,
		"name":      attachment.Name,
		"mimeType":  attachment.MimeType,
		"size":      attachment.Size,
		"storageId": attachment.StorageID,
	}
	return action, nil
}

// lookupFileRef tra attachment theo fileRef, dùng cache cho các action
// cùng command tham chiếu chung một file.
func (r *AttachmentResolver) lookupFileRef(ctx context.Context, fileRef string) (*models.CommandAttachment, error) {
	cacheKey := r.organizationID.Hex() + ":" + fileRef
	if cached, exist := r.cache.Get(cacheKey); exist {
		if attachment, ok := cached.(*models.CommandAttachment); ok {
			return attachment, nil
		}
	}

	filter := bson.M{
		"fileRef":             fileRef,
		"ownerOrganizationId": r.organizationID,
	}
	attachment, err := r.attachmentService.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("file không tồn tại hoặc đã bị xóa")
	}

	r.cache.Set(cacheKey, &attachment)
	return &attachment, nil
}
