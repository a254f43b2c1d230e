package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trigger type - hiện chỉ hỗ trợ schedule, các loại event-based để dành cho sau
const (
	TriggerTypeSchedule = "schedule"
)

// Tần suất lặp của schedule trigger
const (
	FrequencyHourly  = "hourly"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Trạng thái một lần chạy automation
const (
	RunStatusSuccess = "success" // Mọi step thành công
	RunStatusPartial = "partial" // Có step lỗi nhưng chain chạy hết
	RunStatusFailed  = "failed"  // Chain bị dừng giữa chừng
)

// ScheduleConfig cấu hình lịch chạy. Các trường bắt buộc tùy frequency:
// daily/weekly/monthly cần TimeOfDay, weekly cần DayOfWeek không rỗng,
// monthly cần DayOfMonth trong [1,31]. Thiếu trường bắt buộc thì trigger
// không tính được lần chạy kế tiếp (không lỗi, chỉ không chạy).
type ScheduleConfig struct {
	Frequency  string   `json:"frequency" bson:"frequency"`
	TimeOfDay  string   `json:"timeOfDay,omitempty" bson:"timeOfDay,omitempty"` // "HH:MM"
	DayOfWeek  []string `json:"dayOfWeek,omitempty" bson:"dayOfWeek,omitempty"` // "monday".."sunday"
	DayOfMonth int      `json:"dayOfMonth,omitempty" bson:"dayOfMonth,omitempty"`
	Timezone   string   `json:"timezone,omitempty" bson:"timezone,omitempty"` // IANA, ví dụ "Asia/Ho_Chi_Minh"
}

// Trigger điều kiện kích hoạt automation, sở hữu 1:1 bởi automation.
type Trigger struct {
	Type           string          `json:"type" bson:"type"`
	ScheduleConfig *ScheduleConfig `json:"scheduleConfig,omitempty" bson:"scheduleConfig,omitempty"`
}

// ChainEntry một bước trong action chain. Order định nghĩa thứ tự thực thi
// nghiêm ngặt và phải duy nhất trong chain. ContinueOnFailure=false nghĩa là
// lỗi ở bước này dừng toàn bộ phần còn lại của chain trong lần chạy đó.
type ChainEntry struct {
	ActionID          primitive.ObjectID `json:"actionId" bson:"actionId"`
	Order             int                `json:"order" bson:"order"`
	ContinueOnFailure bool               `json:"continueOnFailure" bson:"continueOnFailure"`
}

// ValidateActionChain kiểm tra order trong chain là duy nhất.
// Order trùng nhau làm thứ tự thực thi giữa hai bước không xác định được,
// nên bị từ chối cả lúc ghi lẫn lúc chạy.
func ValidateActionChain(entries []ChainEntry) error {
	seen := make(map[int]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.Order] {
			return fmt.Errorf("action chain có order %d bị trùng, mỗi bước phải có order duy nhất", entry.Order)
		}
		seen[entry.Order] = true
	}
	return nil
}

// AutomationStats thống kê tích lũy của automation.
// AverageExecutionTimeMs được cập nhật tăng dần:
// new_avg = (old_avg*old_count + new_duration) / new_count
type AutomationStats struct {
	TotalRuns              int64   `json:"totalRuns" bson:"totalRuns"`
	SuccessfulRuns         int64   `json:"successfulRuns" bson:"successfulRuns"`
	AverageExecutionTimeMs float64 `json:"averageExecutionTimeMs" bson:"averageExecutionTimeMs"`
}

// ExecutionLogEntry một dòng trong nhật ký chạy (append-only, mỗi lần chạy đúng một dòng).
type ExecutionLogEntry struct {
	Timestamp       int64  `json:"timestamp" bson:"timestamp"`
	Status          string `json:"status" bson:"status"`
	ExecutionTimeMs int64  `json:"executionTimeMs" bson:"executionTimeMs"`
}

// Automation một cặp trigger + action chain được lưu, chạy không cần người trông.
// Collection: automations
type Automation struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name     string `json:"name" bson:"name"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
	IsActive bool   `json:"isActive" bson:"isActive" index:"single:1"` // Tạo mới mặc định inactive

	Trigger     Trigger      `json:"trigger" bson:"trigger"`
	ActionChain []ChainEntry `json:"actionChain,omitempty" bson:"actionChain,omitempty"`

	Stats        AutomationStats     `json:"stats" bson:"stats"`
	ExecutionLog []ExecutionLogEntry `json:"executionLog,omitempty" bson:"executionLog,omitempty"`

	// Lần chạy kế tiếp đã resolve (UnixMilli), 0 = không tính được
	NextRunAt int64 `json:"nextRunAt,omitempty" bson:"nextRunAt,omitempty" index:"single:1"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`

	OwnerOrganizationID primitive.ObjectID `json:"ownerOrganizationId" bson:"ownerOrganizationId" index:"single:1"`
	CreatedBy           primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
}
