// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu (catalog action mặc định).
// Tách ra package riêng để tránh import cycle giữa automation/service và cmd/server.
package initsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	automodels "seller_ops/internal/api/automation/models"
	autosvc "seller_ops/internal/api/automation/service"
	"seller_ops/internal/common"
	"seller_ops/internal/logger"
)

// InitService khởi tạo dữ liệu mặc định của hệ thống.
// Hiện tại chỉ seed catalog automation action dùng chung (ownerOrganizationId = nil ObjectID).
type InitService struct {
	actionService *autosvc.AutomationActionService
}

// NewInitService tạo mới một đối tượng InitService
func NewInitService() (*InitService, error) {
	actionService, err := autosvc.NewAutomationActionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create automation action service: %v", err)
	}

	return &InitService{
		actionService: actionService,
	}, nil
}

// defaultActions trả về catalog action mặc định mà mọi tổ chức đều dùng được.
// Action của từng tổ chức (ownerOrganizationId riêng) được tạo qua API.
func defaultActions() []automodels.AutomationAction {
	return []automodels.AutomationAction{
		{
			Name:        "restock_low_inventory",
			Kind:        "update_inventory",
			Title:       "Bổ sung tồn kho thấp",
			Description: "Tăng tồn kho cho các listing sắp hết hàng",
			Params: map[string]interface{}{
				"threshold": 5,
				"restockTo": 20,
			},
		},
		{
			Name:        "reply_pending_messages",
			Kind:        "reply_message",
			Title:       "Trả lời tin nhắn chờ",
			Description: "Gửi câu trả lời mẫu cho các tin nhắn khách chưa được trả lời",
			Params: map[string]interface{}{
				"template": "default_reply",
			},
		},
		{
			Name:        "weekend_discount",
			Kind:        "create_discount",
			Title:       "Giảm giá cuối tuần",
			Description: "Tạo mã giảm giá áp dụng cho cuối tuần",
			Params: map[string]interface{}{
				"percent": 10,
			},
		},
	}
}

// InitDefaultActionCatalog seed catalog action mặc định nếu chưa có.
// Action đã tồn tại (theo name trong phạm vi dùng chung) được giữ nguyên, không ghi đè.
func (s *InitService) InitDefaultActionCatalog() error {
	ctx := context.Background()
	log := logger.GetAppLogger()

	for _, action := range defaultActions() {
		filter := bson.M{
			"name":                action.Name,
			"ownerOrganizationId": primitive.NilObjectID,
		}

		_, err := s.actionService.FindOne(ctx, filter, nil)
		if err == nil {
			continue // đã tồn tại
		}
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to check action %s: %v", action.Name, err)
		}

		if _, err := s.actionService.InsertOne(ctx, action); err != nil {
			return fmt.Errorf("failed to insert default action %s: %v", action.Name, err)
		}
		log.Infof("Đã tạo action mặc định: %s", action.Name)
	}

	return nil
}
