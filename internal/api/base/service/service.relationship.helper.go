package basesvc

import (
	"context"
	"fmt"

	"seller_ops/internal/common"
	"seller_ops/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipCheck định nghĩa một quan hệ cần kiểm tra
type RelationshipCheck struct {
	CollectionName string
	FieldName      string
	ErrorMessage   string
	Optional       bool
}

// CheckRelationshipExists kiểm tra có record nào trong collection khác đang trỏ tới record này không
func CheckRelationshipExists(ctx context.Context, recordID primitive.ObjectID, checks []RelationshipCheck) error {
	for _, check := range checks {
		collection, exists := global.RegistryCollections.Get(check.CollectionName)
		if !exists {
			if check.Optional {
				continue
			}
			return common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Không tìm thấy collection '%s' để kiểm tra quan hệ", check.CollectionName),
				common.StatusInternalServerError,
				nil,
			)
		}
		filter := bson.M{check.FieldName: recordID}
		count, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			return common.ConvertMongoError(err)
		}
		if count > 0 {
			errorMsg := check.ErrorMessage
			if errorMsg == "" {
				errorMsg = fmt.Sprintf("Không thể xóa record vì có %d record trong collection '%s' đang tham chiếu tới record này", count, check.CollectionName)
			} else {
				errorMsg = fmt.Sprintf(check.ErrorMessage, count)
			}
			return common.NewError(common.ErrCodeBusinessOperation, errorMsg, common.StatusConflict, nil)
		}
	}
	return nil
}

// GetRelationshipCount trả về số lượng record đang tham chiếu tới record này
func GetRelationshipCount(ctx context.Context, recordID primitive.ObjectID, collectionName, fieldName string) (int64, error) {
	collection, exists := global.RegistryCollections.Get(collectionName)
	if !exists {
		return 0, common.NewError(common.ErrCodeInternalServer, fmt.Sprintf("Không tìm thấy collection '%s'", collectionName), common.StatusInternalServerError, nil)
	}
	filter := bson.M{fieldName: recordID}
	return collection.CountDocuments(ctx, filter)
}

// ValidateBeforeDeleteAutomationAction kiểm tra các quan hệ của AutomationAction trước khi xóa.
// Một action đang được tham chiếu bởi action chain của automation thì không được xóa.
func ValidateBeforeDeleteAutomationAction(ctx context.Context, actionID primitive.ObjectID) error {
	checks := []RelationshipCheck{
		{CollectionName: global.MongoDB_ColNames.Automations, FieldName: "actionChain.actionId", ErrorMessage: "Không thể xóa action vì có %d automation đang sử dụng action này trong action chain. Vui lòng gỡ action khỏi các automation trước."},
	}
	return CheckRelationshipExists(ctx, actionID, checks)
}

// ValidateBeforeDeleteCommand kiểm tra các quan hệ của Command trước khi xóa.
func ValidateBeforeDeleteCommand(ctx context.Context, commandID primitive.ObjectID) error {
	checks := []RelationshipCheck{
		{CollectionName: global.MongoDB_ColNames.CommandAttachments, FieldName: "commandId", ErrorMessage: "Không thể xóa lệnh vì có %d file đính kèm đang tham chiếu tới lệnh này. Vui lòng xóa các file đính kèm trước."},
	}
	return CheckRelationshipExists(ctx, commandID, checks)
}
