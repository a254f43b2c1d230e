package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"seller_ops/config"
	automodels "seller_ops/internal/api/automation/models"
	cmdmodels "seller_ops/internal/api/command/models"
	"seller_ops/internal/database"
	"seller_ops/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Commands = "commands"
	global.MongoDB_ColNames.Automations = "automations"
	global.MongoDB_ColNames.AutomationActions = "automation_actions"
	global.MongoDB_ColNames.CommandAttachments = "command_attachments"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, exists, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection (từ tag `index` trên model)
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName_Data
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Commands), cmdmodels.Command{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.CommandAttachments), cmdmodels.CommandAttachment{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Automations), automodels.Automation{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.AutomationActions), automodels.AutomationAction{})

	// Index compound không biểu diễn được qua tag
	if err := database.CreateAdditionalIndexes(context.TODO(), db); err != nil {
		logrus.Errorf("Failed to create additional indexes: %v", err)
	}
}
