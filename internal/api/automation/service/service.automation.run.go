package autosvc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/automation/models"
	"seller_ops/internal/common"
	"seller_ops/internal/logger"
	"seller_ops/internal/platform"
	"seller_ops/internal/utility"
)

// ChainStepFailure lỗi của một bước trong chain.
type ChainStepFailure struct {
	Order    int    `json:"order"`
	ActionID string `json:"actionId,omitempty"`
	Message  string `json:"message"`
}

// RunResult kết quả một lần chạy automation.
type RunResult struct {
	Status          string             `json:"status"` // success | partial | failed
	StepsExecuted   int                `json:"stepsExecuted"`
	SuccessCount    int                `json:"successCount"`
	Failures        []ChainStepFailure `json:"failures,omitempty"`
	ExecutionTimeMs int64              `json:"executionTimeMs"`
	Aborted         bool               `json:"aborted"` // true khi chain dừng giữa chừng do continueOnFailure=false
}

// chainStep một bước đã resolve: entry + action record, hoặc lý do không resolve được.
type chainStep struct {
	entry      models.ChainEntry
	action     platform.ActionRecord
	missingMsg string
}

// RunChain chạy action chain của automation theo thứ tự order, ghi một dòng
// executionLog và cập nhật thống kê tích lũy. Không kiểm tra nextRunAt -
// caller quyết định khi nào gọi (worker theo lịch, hoặc user bấm run-now).
func (s *AutomationService) RunChain(ctx context.Context, automation *models.Automation) (*RunResult, error) {
	log := logger.GetAppLogger()
	startedAt := time.Now()

	// Chain với order trùng không có thứ tự thực thi xác định - từ chối
	// trước khi chạy bất kỳ bước nào (dữ liệu cũ có thể lọt qua validation ghi)
	if err := models.ValidateActionChain(automation.ActionChain); err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, err)
	}

	steps := s.resolveChain(ctx, automation)
	result := executeChain(ctx, steps, s.executors)
	result.ExecutionTimeMs = time.Since(startedAt).Milliseconds()

	if err := s.recordRun(ctx, automation, result, startedAt); err != nil {
		return result, err
	}

	log.WithFields(map[string]interface{}{
		"automationId":    automation.ID.Hex(),
		"status":          result.Status,
		"stepsExecuted":   result.StepsExecuted,
		"executionTimeMs": result.ExecutionTimeMs,
	}).Info("⚙️ [AUTOMATION] Chạy chain hoàn tất")
	return result, nil
}

// RunNow chạy automation ngay lập tức theo yêu cầu của user, bỏ qua
// kiểm tra nextRunAt. Automation inactive vẫn chạy được qua đường này.
func (s *AutomationService) RunNow(ctx context.Context, id primitive.ObjectID, orgID primitive.ObjectID) (*RunResult, error) {
	automation, err := s.findScoped(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	return s.RunChain(ctx, automation)
}

// DueAutomations trả về các automation active có nextRunAt đã đến hạn.
func (s *AutomationService) DueAutomations(ctx context.Context, now time.Time) ([]models.Automation, error) {
	filter := bson.M{
		"isActive":     true,
		"trigger.type": models.TriggerTypeSchedule,
		"nextRunAt":    bson.M{"$gt": 0, "$lte": utility.UnixMilli(now)},
	}
	return s.BaseServiceMongoImpl.Find(ctx, filter, nil)
}

// Tick chạy tất cả automation đến hạn. Lỗi của một automation không chặn
// các automation còn lại.
func (s *AutomationService) Tick(ctx context.Context, now time.Time) error {
	log := logger.GetAppLogger()

	due, err := s.DueAutomations(ctx, now)
	if err != nil {
		return fmt.Errorf("lỗi khi tìm automation đến hạn: %w", err)
	}

	for idx := range due {
		if err := ctx.Err(); err != nil {
			return err
		}
		automation := due[idx]
		if _, err := s.RunChain(ctx, &automation); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"automationId": automation.ID.Hex(),
			}).Error("⚙️ [AUTOMATION] Lỗi khi chạy automation đến hạn")
		}
	}
	return nil
}

// resolveChain sắp xếp chain theo order và tra action record cho từng entry.
// Action không tồn tại không làm hỏng bước resolve - lỗi được gắn vào step
// và xử lý theo chính sách continueOnFailure lúc thực thi.
func (s *AutomationService) resolveChain(ctx context.Context, automation *models.Automation) []chainStep {
	entries := make([]models.ChainEntry, len(automation.ActionChain))
	copy(entries, automation.ActionChain)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

	steps := make([]chainStep, 0, len(entries))
	for _, entry := range entries {
		step := chainStep{entry: entry}
		action, err := s.actionService.FindOneById(ctx, entry.ActionID)
		if err != nil {
			step.missingMsg = fmt.Sprintf("Không tìm thấy action %s", entry.ActionID.Hex())
		} else {
			step.action = action.ToActionRecord()
		}
		steps = append(steps, step)
	}
	return steps
}

// executeChain thực thi các step tuần tự, áp dụng chính sách continueOnFailure:
// step lỗi với continueOnFailure=false dừng chain ngay (run failed), step lỗi
// với continueOnFailure=true chỉ đánh dấu step đó lỗi và chạy tiếp (run partial).
func executeChain(ctx context.Context, steps []chainStep, executors *platform.ExecutorRegistry) *RunResult {
	result := &RunResult{
		Status:   models.RunStatusSuccess,
		Failures: make([]ChainStepFailure, 0),
	}

	for _, step := range steps {
		failMsg := ""
		if step.missingMsg != "" {
			failMsg = step.missingMsg
		} else {
			execResult, err := executors.Execute(ctx, step.action)
			if err != nil {
				failMsg = err.Error()
			} else if !execResult.Success {
				failMsg = execResult.Message
			}
		}

		result.StepsExecuted++
		if failMsg == "" {
			result.SuccessCount++
			continue
		}

		result.Failures = append(result.Failures, ChainStepFailure{
			Order:    step.entry.Order,
			ActionID: step.entry.ActionID.Hex(),
			Message:  failMsg,
		})
		if !step.entry.ContinueOnFailure {
			result.Status = models.RunStatusFailed
			result.Aborted = true
			return result
		}
		result.Status = models.RunStatusPartial
	}

	return result
}

// applyRunStats cập nhật thống kê tích lũy sau một lần chạy.
// Trung bình được tính tăng dần, không lưu tổng ở đâu khác:
// new_avg = (old_avg*old_count + new_duration) / new_count
func applyRunStats(stats models.AutomationStats, status string, durationMs int64) models.AutomationStats {
	oldCount := stats.TotalRuns
	newCount := oldCount + 1
	stats.AverageExecutionTimeMs = (stats.AverageExecutionTimeMs*float64(oldCount) + float64(durationMs)) / float64(newCount)
	stats.TotalRuns = newCount
	if status == models.RunStatusSuccess {
		stats.SuccessfulRuns++
	}
	return stats
}

// recordRun ghi đúng một dòng executionLog, cập nhật stats và nextRunAt.
func (s *AutomationService) recordRun(ctx context.Context, automation *models.Automation, result *RunResult, startedAt time.Time) error {
	newStats := applyRunStats(automation.Stats, result.Status, result.ExecutionTimeMs)

	nextRunAt := int64(0)
	if automation.IsActive {
		nextRunAt = resolveNextRunMilli(&automation.Trigger, time.Now())
	}

	logEntry := models.ExecutionLogEntry{
		Timestamp:       utility.UnixMilli(startedAt),
		Status:          result.Status,
		ExecutionTimeMs: result.ExecutionTimeMs,
	}

	update := bson.M{
		"$set": bson.M{
			"stats":     newStats,
			"nextRunAt": nextRunAt,
			"updatedAt": utility.CurrentTimeInMilli(),
		},
		"$push": bson.M{"executionLog": logEntry},
	}
	_, err := s.Collection().UpdateOne(ctx, bson.M{"_id": automation.ID}, update)
	if err != nil {
		return fmt.Errorf("lỗi khi ghi kết quả chạy automation: %w", err)
	}
	return nil
}
