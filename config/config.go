package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Nó chứa thông tin cơ sở dữ liệu, AI service và các hạn mức vận hành
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Chế độ khởi tạo (dùng mock AI service và executor)
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName_Data   string `env:"MONGODB_DBNAME_DATA,required"`              // Tên cơ sở dữ liệu data
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// AI Interpreter Service Configuration
	AIServiceURL     string `env:"AI_SERVICE_URL"`                        // URL của AI service diễn giải lệnh
	AIServiceAPIKey  string `env:"AI_SERVICE_API_KEY"`                    // API key của AI service
	AIServiceTimeout int    `env:"AI_SERVICE_TIMEOUT" envDefault:"30"`    // Timeout gọi AI service (giây)
	MinConfidence    float64 `env:"AI_MIN_CONFIDENCE" envDefault:"0.5"`   // Ngưỡng confidence tối thiểu để thực thi không cần xác nhận

	// Platform Executor Service Configuration
	ExecutorServiceURL string `env:"EXECUTOR_SERVICE_URL"`             // URL của executor service thực thi action trên các sàn
	ExecutorTimeout    int    `env:"EXECUTOR_TIMEOUT" envDefault:"30"` // Timeout gọi executor service (giây)
	ExecutorKinds      string `env:"EXECUTOR_KINDS"`                   // Các action kind executor service xử lý (phân cách bởi dấu phẩy, rỗng = dùng danh sách mặc định)

	// Command Lifecycle Configuration
	CommandMonthlyLimit int `env:"COMMAND_MONTHLY_LIMIT" envDefault:"1000"` // Hạn mức lệnh mỗi tổ chức trong một tháng (0 = không giới hạn)
	CommandStuckMinutes int `env:"COMMAND_STUCK_MINUTES" envDefault:"15"`   // Số phút không có tiến triển trước khi một lệnh bị coi là kẹt
	PollIntervalSeconds int `env:"POLL_INTERVAL_SECONDS" envDefault:"2"`    // Chu kỳ polling trạng thái lệnh (giây)
	PollMaxAttempts     int `env:"POLL_MAX_ATTEMPTS" envDefault:"150"`      // Số lần polling tối đa trước khi coi là mất dấu

	// Automation Configuration
	AutomationTickSeconds int    `env:"AUTOMATION_TICK_SECONDS" envDefault:"60"` // Chu kỳ quét automation đến hạn (giây)
	DefaultTimezone       string `env:"DEFAULT_TIMEZONE" envDefault:"UTC"`       // Timezone mặc định khi automation không khai báo

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
