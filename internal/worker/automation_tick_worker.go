package worker

import (
	"context"
	"time"

	autosvc "seller_ops/internal/api/automation/service"
	"seller_ops/internal/logger"
)

// AutomationTickWorker worker đánh giá định kỳ các automation đến hạn và
// chạy action chain của chúng. Mỗi tick là một lần gọi Tick - automation
// lỗi không chặn các automation còn lại.
type AutomationTickWorker struct {
	automationService *autosvc.AutomationService
	interval          time.Duration
}

// NewAutomationTickWorker tạo mới AutomationTickWorker
func NewAutomationTickWorker(automationService *autosvc.AutomationService, interval time.Duration) *AutomationTickWorker {
	if interval < 10*time.Second {
		interval = 1 * time.Minute
	}
	return &AutomationTickWorker{
		automationService: automationService,
		interval:          interval,
	}
}

// Start chạy worker định kỳ cho đến khi ctx bị hủy.
func (w *AutomationTickWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("⏰ [AUTOMATION_TICK] Starting Automation Tick Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ [AUTOMATION_TICK] Automation Tick Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("⏰ [AUTOMATION_TICK] Panic khi chạy automation tick, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				if err := w.automationService.Tick(ctx, time.Now()); err != nil && ctx.Err() == nil {
					log.WithError(err).Error("⏰ [AUTOMATION_TICK] Lỗi khi chạy automation tick")
				}
			}()
		}
	}
}
