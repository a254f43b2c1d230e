package worker

import (
	"context"
	"time"

	cmdsvc "seller_ops/internal/api/command/service"
	"seller_ops/internal/logger"
)

// CommandCleanupWorker worker để tự động giải phóng các lệnh bị kẹt.
// Lệnh kẹt ở executing quá lâu (process chết giữa chừng) được chuyển sang
// failed - không có cơ chế resume nên đây là trạng thái terminal đúng.
type CommandCleanupWorker struct {
	commandService *cmdsvc.CommandService
	interval       time.Duration // Khoảng thời gian giữa các lần chạy
	stuckMinutes   int           // Số phút không tiến triển để coi lệnh là kẹt
}

// NewCommandCleanupWorker tạo mới CommandCleanupWorker
func NewCommandCleanupWorker(commandService *cmdsvc.CommandService, interval time.Duration, stuckMinutes int) *CommandCleanupWorker {
	if interval < 30*time.Second {
		interval = 1 * time.Minute
	}
	if stuckMinutes < 1 {
		stuckMinutes = 15
	}
	return &CommandCleanupWorker{
		commandService: commandService,
		interval:       interval,
		stuckMinutes:   stuckMinutes,
	}
}

// Start chạy worker định kỳ cho đến khi ctx bị hủy.
func (w *CommandCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":     w.interval.String(),
		"stuckMinutes": w.stuckMinutes,
	}).Info("🔄 [COMMAND_CLEANUP] Starting Command Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [COMMAND_CLEANUP] Command Cleanup Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔄 [COMMAND_CLEANUP] Panic khi giải phóng lệnh bị kẹt, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				releasedCount, err := w.commandService.ReleaseStuckCommands(ctx, w.stuckMinutes)
				if err != nil {
					log.WithError(err).Error("🔄 [COMMAND_CLEANUP] Failed to release stuck commands")
					return
				}

				if releasedCount > 0 {
					log.WithFields(map[string]interface{}{
						"releasedCount": releasedCount,
						"stuckMinutes":  w.stuckMinutes,
					}).Info("🔄 [COMMAND_CLEANUP] Released stuck commands")
				}
				// releasedCount = 0 thì không log (giảm log noise)
			}()
		}
	}
}
