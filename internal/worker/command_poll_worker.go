package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/command/models"
	"seller_ops/internal/common"
	"seller_ops/internal/logger"
)

// CommandPoller đọc trạng thái hiện tại của một command.
// CommandService thỏa interface này qua method Poll.
type CommandPoller interface {
	Poll(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID) (*models.Command, error)
}

// CommandPollWorker theo dõi một command đang thực thi bằng cách đọc lại
// trạng thái theo chu kỳ cố định. Polling thay vì push vì việc thực thi
// diễn ra out-of-process.
//
// Polling luôn có giới hạn: dừng ngay khi thấy trạng thái terminal, khi ctx
// bị hủy, khi đọc lỗi, hoặc khi hết số lần thử - retry vô hạn trên một phép
// đọc đang lỗi là rò rỉ tài nguyên, không phải resilience.
type CommandPollWorker struct {
	commandService CommandPoller
	interval       time.Duration
	maxAttempts    int
}

// NewCommandPollWorker tạo mới CommandPollWorker
func NewCommandPollWorker(commandService CommandPoller, interval time.Duration, maxAttempts int) *CommandPollWorker {
	if interval < 500*time.Millisecond {
		interval = 2 * time.Second
	}
	if maxAttempts < 1 {
		maxAttempts = 150
	}
	return &CommandPollWorker{
		commandService: commandService,
		interval:       interval,
		maxAttempts:    maxAttempts,
	}
}

// Poll block cho đến khi command đạt terminal hoặc một điều kiện dừng xảy ra.
// Trả về ErrCommandLost khi đọc lỗi hoặc hết số lần thử mà command chưa terminal.
func (w *CommandPollWorker) Poll(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID) (*models.Command, error) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		cmd, err := w.commandService.Poll(ctx, commandID, orgID)
		if err != nil {
			// Không retry trên phép đọc đang lỗi - dừng và báo mất dấu
			log.WithError(err).WithFields(map[string]interface{}{
				"commandId": commandID.Hex(),
				"attempt":   attempt,
			}).Warn("📡 [COMMAND_POLL] Lỗi khi đọc trạng thái lệnh, dừng polling")
			return nil, common.ErrCommandLost
		}
		if models.IsTerminalCommandStatus(cmd.Status) {
			return cmd, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	log.WithFields(map[string]interface{}{
		"commandId":   commandID.Hex(),
		"maxAttempts": w.maxAttempts,
	}).Warn("📡 [COMMAND_POLL] Hết số lần thử mà lệnh chưa terminal")
	return nil, common.ErrCommandLost
}
