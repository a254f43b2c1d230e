package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/platform"
)

// CommandStatus định nghĩa các trạng thái của command.
// Chuyển trạng thái chỉ đi tiến: interpreting → awaiting_confirmation → executing → completed,
// failed đạt được từ mọi trạng thái chưa kết thúc (lỗi interpret, user hủy, lỗi thực thi).
const (
	CommandStatusInterpreting         = "interpreting"          // Đang phân tích câu lệnh
	CommandStatusAwaitingConfirmation = "awaiting_confirmation" // Chờ user xác nhận
	CommandStatusExecuting            = "executing"             // Đang thực thi
	CommandStatusCompleted            = "completed"             // Hoàn thành
	CommandStatusFailed               = "failed"                // Thất bại
)

// CommandRiskLevel mức độ rủi ro của command
const (
	CommandRiskLow    = "low"
	CommandRiskMedium = "medium"
	CommandRiskHigh   = "high"
)

// IsTerminalCommandStatus kiểm tra trạng thái có phải terminal không.
// Command đã terminal không bao giờ bị mutate, trừ khi user hủy trước đó.
func IsTerminalCommandStatus(status string) bool {
	return status == CommandStatusCompleted || status == CommandStatusFailed
}

// CommandFailure chi tiết một action thất bại trong command.
// Stage phân biệt lỗi resolution (thiếu dữ liệu liên kết) với lỗi execution (executor trả thất bại).
type CommandFailure struct {
	Index   int    `json:"index" bson:"index"`
	Kind    string `json:"kind,omitempty" bson:"kind,omitempty"`
	Stage   string `json:"stage" bson:"stage"`
	Message string `json:"message" bson:"message"`
}

// CommandResult tổng kết kết quả khi command đạt terminal.
type CommandResult struct {
	SuccessCount int              `json:"successCount" bson:"successCount"`
	Failures     []CommandFailure `json:"failures,omitempty" bson:"failures,omitempty"`
}

// Command một yêu cầu ngôn ngữ tự nhiên của user, theo dõi qua vòng đời
// interpret → confirm → execute.
// Collection: commands
type Command struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// ===== INPUT =====
	Text            string   `json:"text" bson:"text"`                                 // Câu lệnh gốc của user
	PlatformTargets []string `json:"platformTargets" bson:"platformTargets"`           // Các sàn áp dụng (không rỗng khi submit)
	FileRefs        []string `json:"fileRefs,omitempty" bson:"fileRefs,omitempty"`     // Tham chiếu file đính kèm trong hội thoại

	// ===== INTERPRETATION =====
	ActionsPlanned []platform.ActionRecord `json:"actionsPlanned,omitempty" bson:"actionsPlanned,omitempty"` // Đã lọc bỏ entry không hợp lệ
	Confidence     float64                 `json:"confidence" bson:"confidence"`                             // Trong [0,1], mặc định 0.8 khi interpreter không trả
	RiskLevel      string                  `json:"riskLevel,omitempty" bson:"riskLevel,omitempty" default:"low"`
	Warnings       []string                `json:"warnings,omitempty" bson:"warnings,omitempty"`

	// ===== LIFECYCLE =====
	Status        string         `json:"status" bson:"status" index:"single:1" default:"interpreting"`
	FailureReason string         `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	Result        *CommandResult `json:"result,omitempty" bson:"result,omitempty"`

	// ===== TIMESTAMPS =====
	StartedAt   int64 `json:"startedAt,omitempty" bson:"startedAt,omitempty"`     // Thời điểm bắt đầu thực thi
	CompletedAt int64 `json:"completedAt,omitempty" bson:"completedAt,omitempty"` // Thời điểm đạt terminal
	CreatedAt   int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt   int64 `json:"updatedAt" bson:"updatedAt"`

	// ===== ORGANIZATION =====
	OwnerOrganizationID primitive.ObjectID `json:"ownerOrganizationId" bson:"ownerOrganizationId" index:"single:1"`
	CreatedBy           primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	// Relationship definitions - không export, chỉ dùng cho tag parsing
	_Relationships struct{} `relationship:"collection:command_attachments,field:commandId,message:Không thể xóa command vì có %d file đính kèm. Vui lòng xóa các file đính kèm trước."`
}
