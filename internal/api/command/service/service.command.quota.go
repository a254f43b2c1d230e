package cmdsvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/common"
	"seller_ops/internal/global"
	"seller_ops/internal/utility"
)

// CheckMonthlyQuota kiểm tra hạn mức lệnh của tổ chức trong tháng hiện tại.
// Đếm TẤT CẢ command đã tạo trong tháng (kể cả failed/cancelled) - quota tính
// trên số lần submit, không phải số lần thực thi thành công.
// Limit <= 0 nghĩa là không giới hạn.
func (s *CommandService) CheckMonthlyQuota(ctx context.Context, orgID primitive.ObjectID) error {
	limit := int64(global.MongoDB_ServerConfig.CommandMonthlyLimit)
	if limit <= 0 {
		return nil
	}

	monthStart := utility.UnixMilli(utility.MonthStart(time.Now()))
	filter := bson.M{
		"ownerOrganizationId": orgID,
		"createdAt":           bson.M{"$gte": monthStart},
	}

	count, err := s.BaseServiceMongoImpl.CountDocuments(ctx, filter)
	if err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, "Lỗi khi kiểm tra hạn mức lệnh", common.StatusInternalServerError, err)
	}

	if count >= limit {
		return common.NewError(common.ErrCodeCommandQuota,
			"Đã vượt hạn mức lệnh trong tháng. Vui lòng thử lại vào tháng sau hoặc nâng cấp gói dịch vụ.",
			common.StatusTooManyRequests, common.ErrCommandQuotaExceeded)
	}
	return nil
}
