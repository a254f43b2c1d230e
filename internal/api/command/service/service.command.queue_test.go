// Package cmdsvc - Test PendingActionQueue: bất biến luôn-tiến và phân loại lỗi theo stage.
package cmdsvc

import (
	"context"
	"fmt"
	"testing"

	"seller_ops/internal/platform"
)

// stubResolver trả lỗi resolution cho các kind được cấu hình, còn lại passthrough.
type stubResolver struct {
	failKinds map[string]string
}

func (r *stubResolver) Resolve(ctx context.Context, action platform.ActionRecord) (platform.ActionRecord, error) {
	if msg, fail := r.failKinds[action.Kind]; fail {
		return platform.ActionRecord{}, fmt.Errorf("%s", msg)
	}
	return action, nil
}

func testActions(kinds ...string) []platform.ActionRecord {
	actions := make([]platform.ActionRecord, 0, len(kinds))
	for _, kind := range kinds {
		actions = append(actions, platform.ActionRecord{Kind: kind})
	}
	return actions
}

func testRegistry(kinds ...string) (*platform.ExecutorRegistry, *platform.MockExecutor) {
	executor := platform.NewMockExecutor(kinds...)
	registry := platform.NewExecutorRegistry()
	registry.Register(executor)
	return registry, executor
}

func TestQueue_AlwaysAdvancesPastFailure(t *testing.T) {
	registry, executor := testRegistry("a", "b", "c")
	executor.FailOn("b", "sàn từ chối")

	queue := NewPendingActionQueue(testActions("a", "b", "c"))
	queue.AdvanceAll(context.Background(), nil, registry)

	if !queue.Done {
		t.Error("queue phải Done sau khi xử lý hết")
	}
	if queue.Idx != 3 {
		t.Errorf("Idx phải là 3 (không kẹt ở action lỗi), nhận được %d", queue.Idx)
	}
	if queue.SuccessCount() != 2 {
		t.Errorf("phải có 2 action thành công, nhận được %d", queue.SuccessCount())
	}
	if len(queue.Errors) != 1 {
		t.Fatalf("phải có đúng 1 lỗi, nhận được %d", len(queue.Errors))
	}
	if queue.Errors[0].Index != 1 || queue.Errors[0].Stage != QueueStageExecution {
		t.Errorf("lỗi phải gắn với index 1 stage execution, nhận được %+v", queue.Errors[0])
	}
	// Action sau action lỗi vẫn được thực thi
	executed := executor.Executed()
	if len(executed) != 3 {
		t.Errorf("executor phải nhận đủ 3 action, nhận được %d", len(executed))
	}
}

func TestQueue_ResolutionFailureStage(t *testing.T) {
	registry, executor := testRegistry("a", "b")
	resolver := &stubResolver{failKinds: map[string]string{"a": "không resolve được file 'f1'"}}

	queue := NewPendingActionQueue(testActions("a", "b"))
	queue.AdvanceAll(context.Background(), resolver, registry)

	if len(queue.Errors) != 1 {
		t.Fatalf("phải có đúng 1 lỗi, nhận được %d", len(queue.Errors))
	}
	if queue.Errors[0].Stage != QueueStageResolution {
		t.Errorf("lỗi resolve phải có stage resolution, nhận được %s", queue.Errors[0].Stage)
	}
	// Action lỗi resolution không được gửi đến executor
	executed := executor.Executed()
	if len(executed) != 1 || executed[0].Kind != "b" {
		t.Errorf("chỉ action 'b' được thực thi, nhận được %v", executed)
	}
	if queue.SuccessCount() != 1 {
		t.Errorf("phải có 1 action thành công, nhận được %d", queue.SuccessCount())
	}
}

func TestQueue_UnknownKindFailsClosed(t *testing.T) {
	registry, _ := testRegistry("a")

	queue := NewPendingActionQueue(testActions("a", "unknown_kind"))
	queue.AdvanceAll(context.Background(), nil, registry)

	if !queue.Done {
		t.Error("queue phải Done")
	}
	if len(queue.Errors) != 1 {
		t.Fatalf("kind không đăng ký phải thành lỗi, nhận được %d lỗi", len(queue.Errors))
	}
	if queue.Errors[0].Stage != QueueStageExecution {
		t.Errorf("lỗi kind không đăng ký có stage execution, nhận được %s", queue.Errors[0].Stage)
	}
}

func TestQueue_ContextCancelStopsProcessing(t *testing.T) {
	registry, executor := testRegistry("a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queue := NewPendingActionQueue(testActions("a", "b"))
	queue.AdvanceAll(ctx, nil, registry)

	if !queue.Cancelled {
		t.Error("queue phải Cancelled khi context bị hủy")
	}
	if queue.Done {
		t.Error("queue bị hủy không được đánh dấu Done")
	}
	if len(executor.Executed()) != 0 {
		t.Errorf("không action nào được thực thi sau khi hủy, nhận được %d", len(executor.Executed()))
	}
}

func TestQueue_EmptyQueue(t *testing.T) {
	registry, _ := testRegistry("a")

	queue := NewPendingActionQueue(nil)
	if queue.AdvanceOne(context.Background(), nil, registry) {
		t.Error("AdvanceOne trên queue rỗng phải trả về false")
	}
	if !queue.Done {
		t.Error("queue rỗng phải Done ngay")
	}
	if queue.SuccessCount() != 0 {
		t.Errorf("queue rỗng không có kết quả, nhận được %d", queue.SuccessCount())
	}
}

func TestQueue_CancelSkipsRemaining(t *testing.T) {
	registry, executor := testRegistry("a", "b")

	queue := NewPendingActionQueue(testActions("a", "b"))
	if !queue.AdvanceOne(context.Background(), nil, registry) {
		t.Fatal("AdvanceOne đầu tiên phải xử lý được")
	}
	queue.Cancel()
	if queue.AdvanceOne(context.Background(), nil, registry) {
		t.Error("AdvanceOne sau Cancel phải trả về false")
	}
	if len(executor.Executed()) != 1 {
		t.Errorf("chỉ 1 action được thực thi trước khi hủy, nhận được %d", len(executor.Executed()))
	}
}
