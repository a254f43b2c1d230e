package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/events"
	"seller_ops/internal/logger"
)

// InitEventHandlers đăng ký các handler phản ứng với sự kiện thay đổi dữ liệu.
// Hiện tại chỉ có audit log cho các thao tác CRUD, giúp trace thay đổi
// automation/action của từng tổ chức mà không cần sửa từng service.
func InitEventHandlers() {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		log := logger.GetAppLogger()

		fields := map[string]interface{}{
			"collection": e.CollectionName,
			"operation":  e.Operation,
		}
		if orgID := events.GetOwnerOrganizationIDFromDocument(e.Document); orgID != primitive.NilObjectID {
			fields["organizationId"] = orgID.Hex()
		}
		if updatedAt := events.GetInt64Field(e.Document, "UpdatedAt"); updatedAt > 0 {
			fields["updatedAt"] = updatedAt
		}

		log.WithFields(fields).Debug("🧾 [AUDIT] Dữ liệu thay đổi")
	})

	logger.GetAppLogger().Info("🧾 [AUDIT] Data change audit handler registered")
}
