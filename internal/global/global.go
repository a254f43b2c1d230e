// Package global chứa các biến toàn cục của ứng dụng.
// Các biến này được khởi tạo một lần khi server khởi động
// và được dùng chung bởi các service, handler và worker.
package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"seller_ops/config"
	"seller_ops/internal/registry"
)

// ColNames chứa tên các collection trong database
type ColNames struct {
	Commands           string // Collection lưu các lệnh AI của seller
	Automations        string // Collection lưu các automation
	AutomationActions  string // Collection lưu định nghĩa action dùng trong action chain
	CommandAttachments string // Collection lưu file đính kèm của lệnh
}

var (
	// MongoDB_ServerConfig chứa cấu hình server được load từ file env
	MongoDB_ServerConfig *config.Configuration

	// MongoDB_Session là session kết nối tới MongoDB
	MongoDB_Session *mongo.Client

	// MongoDB_ColNames chứa tên các collection trong database
	MongoDB_ColNames ColNames

	// RegistryCollections registry quản lý các collection đã được khởi tạo
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()

	// Validate instance validator dùng chung cho toàn ứng dụng
	Validate *validator.Validate
)
