package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"

	autosvc "seller_ops/internal/api/automation/service"
	cmdsvc "seller_ops/internal/api/command/service"
	"seller_ops/internal/database"
	"seller_ops/internal/global"
	"seller_ops/internal/logger"
	"seller_ops/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Khởi tạo logger với cấu hình mặc định
	// Logger sẽ tự động đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Log thông tin khởi tạo bằng logger mới
	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// startWorkers khởi động các background worker: giải phóng lệnh kẹt và quét automation đến hạn.
func startWorkers(ctx context.Context, commandService *cmdsvc.CommandService, automationService *autosvc.AutomationService) {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	cleanupWorker := worker.NewCommandCleanupWorker(commandService, time.Minute, cfg.CommandStuckMinutes)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("🔄 [COMMAND_CLEANUP] Worker goroutine panic")
			}
		}()
		cleanupWorker.Start(ctx)
	}()
	log.Info("🔄 [COMMAND_CLEANUP] Worker started")

	tickWorker := worker.NewAutomationTickWorker(automationService, time.Duration(cfg.AutomationTickSeconds)*time.Second)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("⏰ [AUTOMATION_TICK] Worker goroutine panic")
			}
		}()
		tickWorker.Start(ctx)
	}()
	log.Info("⏰ [AUTOMATION_TICK] Worker started")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread(app *fiber.App) {
	// Khởi động server với cấu hình listen
	cfg := global.MongoDB_ServerConfig
	address := cfg.Address

	log := logger.GetAppLogger()
	log.Info("Starting Fiber server...")

	// Helper function để resolve đường dẫn tương đối từ thư mục gốc dự án
	resolvePath := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		currentDir, err := os.Getwd()
		if err != nil {
			return path
		}
		for {
			envDir := filepath.Join(currentDir, "config", "env")
			if _, err := os.Stat(envDir); err == nil {
				return filepath.Join(currentDir, path)
			}
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				return path
			}
			currentDir = parentDir
		}
	}

	// Kiểm tra xem có bật TLS không
	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		// Resolve đường dẫn certificate và key
		certPath := resolvePath(cfg.TLSCertFile)
		keyPath := resolvePath(cfg.TLSKeyFile)

		// Kiểm tra file certificate và key tồn tại
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			log.Fatalf("TLS certificate file not found: %s (resolved from: %s)", certPath, cfg.TLSCertFile)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			log.Fatalf("TLS key file not found: %s (resolved from: %s)", keyPath, cfg.TLSKeyFile)
		}

		// Load certificate và key
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			log.Fatalf("Error loading TLS certificate: %v", err)
		}

		// Tạo listener với TLS
		ln, err := net.Listen("tcp", address)
		if err != nil {
			log.Fatalf("Error creating listener: %v", err)
		}

		// Cấu hình TLS
		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}

		// Wrap listener với TLS
		tlsListener := tls.NewListener(ln, tlsConfig)

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    certPath,
			"key":     keyPath,
		}).Info("Starting server with HTTPS/TLS")

		// Khởi động server với TLS listener
		if err := app.Listener(tlsListener); err != nil {
			log.Fatalf("Error in Fiber Listener with TLS: %v", err)
		}
	} else {
		// Khởi động server HTTP thông thường
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")

		listenConfig := fiber.ListenConfig{}
		if err := app.Listen(address, listenConfig); err != nil {
			log.Fatalf("Error in Fiber Listen: %v", err)
		}
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Đăng ký event handler (audit log thay đổi dữ liệu)
	InitEventHandlers()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	log := logger.GetAppLogger()

	// Khởi tạo interpreter, executor và các service nghiệp vụ (mock hay real tùy InitMode)
	commandService, automationService, err := buildServices()
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	// Khởi động background workers với context có thể cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, commandService, automationService)

	// Flush log còn buffer khi server dừng (chạy sau cùng để không mất log shutdown)
	defer logger.CloseAll()

	// Đóng kết nối MongoDB khi server dừng
	defer func() {
		if global.MongoDB_Session != nil {
			if err := database.CloseInstance(global.MongoDB_Session); err != nil {
				log.Errorf("Error closing MongoDB connection: %v", err)
			}
		}
	}()

	// Khởi tạo Fiber app và đăng ký routes
	app, err := InitFiberApp(commandService, automationService)
	if err != nil {
		log.Fatalf("Failed to initialize Fiber app: %v", err)
	}

	// Chạy Fiber server trên main thread
	main_thread(app)
}
