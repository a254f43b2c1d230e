// Package database - Index bổ sung (compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"seller_ops/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateAdditionalIndexes tạo các index compound cho các collection vận hành.
// Gọi sau khi các collection đã được đăng ký vào registry.
func CreateAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// commands: (ownerOrganizationId, status) — danh sách lệnh theo trạng thái của một tổ chức
	commands := db.Collection(global.MongoDB_ColNames.Commands)
	if _, err := commands.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerOrganizationId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("command_org_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// commands: (ownerOrganizationId, createdAt) — đếm hạn mức sử dụng theo tháng
	if _, err := commands.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerOrganizationId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("command_org_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// commands: (status, startedAt) — quét giải phóng các lệnh bị kẹt
	if _, err := commands.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "startedAt", Value: 1},
		},
		Options: options.Index().SetName("command_status_started"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// automations: (isActive, nextRunAt) — quét automation đến hạn
	automations := db.Collection(global.MongoDB_ColNames.Automations)
	if _, err := automations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "isActive", Value: 1},
			{Key: "nextRunAt", Value: 1},
		},
		Options: options.Index().SetName("automation_active_nextrun"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// automations: (ownerOrganizationId, isActive) — danh sách automation của một tổ chức
	if _, err := automations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerOrganizationId", Value: 1},
			{Key: "isActive", Value: 1},
		},
		Options: options.Index().SetName("automation_org_active"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// command_attachments: (commandId) — resolve file đính kèm theo lệnh
	attachments := db.Collection(global.MongoDB_ColNames.CommandAttachments)
	if _, err := attachments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "commandId", Value: 1},
		},
		Options: options.Index().SetName("attachment_command").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// automation_actions: (ownerOrganizationId, name) — tra cứu action theo tên trong phạm vi tổ chức
	actions := db.Collection(global.MongoDB_ColNames.AutomationActions)
	if _, err := actions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerOrganizationId", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetName("automation_action_org_name"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
