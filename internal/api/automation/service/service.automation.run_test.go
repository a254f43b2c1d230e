// Package autosvc - Test executeChain (chính sách continueOnFailure) và thống kê tích lũy.
package autosvc

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/automation/models"
	"seller_ops/internal/platform"
)

func chainSteps(entries ...chainStep) []chainStep {
	return entries
}

func stepFor(kind string, order int, continueOnFailure bool) chainStep {
	return chainStep{
		entry: models.ChainEntry{
			ActionID:          primitive.NewObjectID(),
			Order:             order,
			ContinueOnFailure: continueOnFailure,
		},
		action: platform.ActionRecord{Kind: kind},
	}
}

func TestExecuteChain_AllSuccess(t *testing.T) {
	executor := platform.NewMockExecutor("a", "b")
	registry := platform.NewExecutorRegistry()
	registry.Register(executor)

	result := executeChain(context.Background(), chainSteps(
		stepFor("a", 1, false),
		stepFor("b", 2, false),
	), registry)

	if result.Status != models.RunStatusSuccess {
		t.Errorf("chain toàn thành công phải có status success, nhận được %s", result.Status)
	}
	if result.StepsExecuted != 2 || result.SuccessCount != 2 {
		t.Errorf("muốn 2/2 step thành công, nhận được %d/%d", result.SuccessCount, result.StepsExecuted)
	}
	if result.Aborted {
		t.Error("chain thành công không được Aborted")
	}
}

func TestExecuteChain_AbortsWhenContinueOnFailureFalse(t *testing.T) {
	executor := platform.NewMockExecutor("a", "b", "c").FailOn("b", "sàn từ chối")
	registry := platform.NewExecutorRegistry()
	registry.Register(executor)

	result := executeChain(context.Background(), chainSteps(
		stepFor("a", 1, false),
		stepFor("b", 2, false), // lỗi, không cho chạy tiếp
		stepFor("c", 3, false),
	), registry)

	if result.Status != models.RunStatusFailed {
		t.Errorf("chain abort phải có status failed, nhận được %s", result.Status)
	}
	if !result.Aborted {
		t.Error("chain dừng giữa chừng phải có Aborted=true")
	}
	if result.StepsExecuted != 2 {
		t.Errorf("chain phải dừng sau step lỗi, StepsExecuted muốn 2, nhận được %d", result.StepsExecuted)
	}
	// Step thứ ba không bao giờ được gửi đến executor
	executed := executor.Executed()
	if len(executed) != 2 {
		t.Errorf("executor chỉ được nhận 2 action, nhận được %d", len(executed))
	}
	if len(result.Failures) != 1 || result.Failures[0].Order != 2 {
		t.Errorf("lỗi phải gắn với step order 2, nhận được %+v", result.Failures)
	}
}

func TestExecuteChain_PartialWhenContinueOnFailureTrue(t *testing.T) {
	executor := platform.NewMockExecutor("a", "b", "c").FailOn("b", "sàn từ chối")
	registry := platform.NewExecutorRegistry()
	registry.Register(executor)

	result := executeChain(context.Background(), chainSteps(
		stepFor("a", 1, true),
		stepFor("b", 2, true), // lỗi nhưng cho chạy tiếp
		stepFor("c", 3, true),
	), registry)

	if result.Status != models.RunStatusPartial {
		t.Errorf("chain có lỗi nhưng chạy hết phải là partial, nhận được %s", result.Status)
	}
	if result.Aborted {
		t.Error("continueOnFailure=true không được Aborted")
	}
	if result.StepsExecuted != 3 || result.SuccessCount != 2 {
		t.Errorf("muốn 3 step / 2 thành công, nhận được %d/%d", result.StepsExecuted, result.SuccessCount)
	}
}

func TestExecuteChain_MissingActionFollowsPolicy(t *testing.T) {
	registry := platform.NewExecutorRegistry()
	registry.Register(platform.NewMockExecutor("a"))

	missing := chainStep{
		entry:      models.ChainEntry{ActionID: primitive.NewObjectID(), Order: 1, ContinueOnFailure: true},
		missingMsg: "Không tìm thấy action",
	}

	result := executeChain(context.Background(), chainSteps(
		missing,
		stepFor("a", 2, true),
	), registry)

	if result.Status != models.RunStatusPartial {
		t.Errorf("action thiếu với continueOnFailure=true phải cho run partial, nhận được %s", result.Status)
	}
	if result.SuccessCount != 1 {
		t.Errorf("step còn lại vẫn phải chạy, SuccessCount muốn 1, nhận được %d", result.SuccessCount)
	}
	if len(result.Failures) != 1 || result.Failures[0].Message != "Không tìm thấy action" {
		t.Errorf("lỗi action thiếu phải giữ nguyên message, nhận được %+v", result.Failures)
	}
}

func TestExecuteChain_EmptyChain(t *testing.T) {
	registry := platform.NewExecutorRegistry()

	result := executeChain(context.Background(), nil, registry)
	if result.Status != models.RunStatusSuccess {
		t.Errorf("chain rỗng phải là success, nhận được %s", result.Status)
	}
	if result.StepsExecuted != 0 {
		t.Errorf("chain rỗng không có step, nhận được %d", result.StepsExecuted)
	}
}

func TestApplyRunStats_IncrementalAverage(t *testing.T) {
	stats := models.AutomationStats{}

	stats = applyRunStats(stats, models.RunStatusSuccess, 100)
	if stats.TotalRuns != 1 || stats.SuccessfulRuns != 1 {
		t.Errorf("sau lần chạy 1: muốn total=1 success=1, nhận được %d/%d", stats.TotalRuns, stats.SuccessfulRuns)
	}
	if stats.AverageExecutionTimeMs != 100 {
		t.Errorf("trung bình sau lần 1 phải là 100, nhận được %f", stats.AverageExecutionTimeMs)
	}

	stats = applyRunStats(stats, models.RunStatusFailed, 200)
	if stats.TotalRuns != 2 || stats.SuccessfulRuns != 1 {
		t.Errorf("run failed vẫn tăng totalRuns nhưng không tăng successfulRuns: %d/%d", stats.TotalRuns, stats.SuccessfulRuns)
	}
	if stats.AverageExecutionTimeMs != 150 {
		t.Errorf("trung bình tích lũy (100+200)/2 phải là 150, nhận được %f", stats.AverageExecutionTimeMs)
	}

	stats = applyRunStats(stats, models.RunStatusPartial, 300)
	if stats.TotalRuns != 3 || stats.SuccessfulRuns != 1 {
		t.Errorf("run partial không tăng successfulRuns: %d/%d", stats.TotalRuns, stats.SuccessfulRuns)
	}
	if stats.AverageExecutionTimeMs != 200 {
		t.Errorf("trung bình tích lũy (100+200+300)/3 phải là 200, nhận được %f", stats.AverageExecutionTimeMs)
	}
}

func TestRunChain_DuplicateOrderRejected(t *testing.T) {
	executor := platform.NewMockExecutor("a")
	registry := platform.NewExecutorRegistry()
	registry.Register(executor)
	service := &AutomationService{executors: registry}

	automation := &models.Automation{
		ID:   primitive.NewObjectID(),
		Name: "chain order trùng",
		ActionChain: []models.ChainEntry{
			{ActionID: primitive.NewObjectID(), Order: 1, ContinueOnFailure: true},
			{ActionID: primitive.NewObjectID(), Order: 1, ContinueOnFailure: true},
		},
	}

	result, err := service.RunChain(context.Background(), automation)
	if err == nil {
		t.Fatal("chain có order trùng phải bị từ chối trước khi chạy")
	}
	if result != nil {
		t.Errorf("chain bị từ chối không được có RunResult, nhận được %+v", result)
	}
	// Không step nào được gửi đến executor
	if executed := executor.Executed(); len(executed) != 0 {
		t.Errorf("executor không được nhận action nào, nhận được %d", len(executed))
	}
}

func TestValidateActionChain(t *testing.T) {
	valid := []models.ChainEntry{
		{ActionID: primitive.NewObjectID(), Order: 1},
		{ActionID: primitive.NewObjectID(), Order: 2},
		{ActionID: primitive.NewObjectID(), Order: 3},
	}
	if err := models.ValidateActionChain(valid); err != nil {
		t.Errorf("chain với order duy nhất phải hợp lệ, nhận được: %v", err)
	}

	duplicate := []models.ChainEntry{
		{ActionID: primitive.NewObjectID(), Order: 1},
		{ActionID: primitive.NewObjectID(), Order: 2},
		{ActionID: primitive.NewObjectID(), Order: 1},
	}
	if err := models.ValidateActionChain(duplicate); err == nil {
		t.Error("chain với order trùng phải bị từ chối")
	}

	if err := models.ValidateActionChain(nil); err != nil {
		t.Errorf("chain rỗng phải hợp lệ, nhận được: %v", err)
	}
}
