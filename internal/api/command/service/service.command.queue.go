package cmdsvc

import (
	"context"

	"seller_ops/internal/platform"
)

// Stage của lỗi trong queue: resolution (không resolve được dữ liệu liên kết)
// hoặc execution (executor trả thất bại hoặc lỗi hạ tầng).
const (
	QueueStageResolution = "resolution"
	QueueStageExecution  = "execution"
)

// QueueError lỗi của một action trong queue, gắn với index gốc.
type QueueError struct {
	Index   int
	Kind    string
	Stage   string
	Message string
}

// ActionResolver chuẩn bị action trước khi thực thi (resolve fileRef, v.v).
// Trả về action đã resolve, hoặc error nếu thiếu dữ liệu liên kết.
type ActionResolver interface {
	Resolve(ctx context.Context, action platform.ActionRecord) (platform.ActionRecord, error)
}

// PendingActionQueue hàng đợi action của một command đang thực thi.
// Bất biến cốt lõi: Idx LUÔN tăng sau mỗi lần xử lý một action, kể cả khi
// action đó lỗi ở bất kỳ stage nào - một action lỗi không bao giờ chặn
// các action phía sau.
type PendingActionQueue struct {
	Items     []platform.ActionRecord
	Idx       int
	Results   []platform.ExecResult
	Errors    []QueueError
	Done      bool
	Cancelled bool
}

// NewPendingActionQueue tạo queue từ danh sách action đã sanitize.
func NewPendingActionQueue(items []platform.ActionRecord) *PendingActionQueue {
	return &PendingActionQueue{
		Items:   items,
		Results: make([]platform.ExecResult, 0, len(items)),
		Errors:  make([]QueueError, 0),
	}
}

// AdvanceOne xử lý action tại Idx hiện tại rồi tăng Idx.
// Trả về false khi queue đã xong hoặc đã hủy (không còn gì để xử lý).
func (q *PendingActionQueue) AdvanceOne(ctx context.Context, resolver ActionResolver, executors *platform.ExecutorRegistry) bool {
	if q.Done || q.Cancelled {
		return false
	}
	if q.Idx >= len(q.Items) {
		q.Done = true
		return false
	}

	action := q.Items[q.Idx]
	idx := q.Idx
	// Idx tăng trước khi xử lý - đảm bảo lỗi ở bất kỳ nhánh nào cũng không
	// làm queue kẹt lại ở cùng một action
	q.Idx++

	if resolver != nil {
		resolved, err := resolver.Resolve(ctx, action)
		if err != nil {
			q.Errors = append(q.Errors, QueueError{
				Index:   idx,
				Kind:    action.Kind,
				Stage:   QueueStageResolution,
				Message: err.Error(),
			})
			if q.Idx >= len(q.Items) {
				q.Done = true
			}
			return true
		}
		action = resolved
	}

	result, err := executors.Execute(ctx, action)
	if err != nil {
		q.Errors = append(q.Errors, QueueError{
			Index:   idx,
			Kind:    action.Kind,
			Stage:   QueueStageExecution,
			Message: err.Error(),
		})
	} else if !result.Success {
		q.Errors = append(q.Errors, QueueError{
			Index:   idx,
			Kind:    action.Kind,
			Stage:   QueueStageExecution,
			Message: result.Message,
		})
	} else {
		q.Results = append(q.Results, result)
	}

	if q.Idx >= len(q.Items) {
		q.Done = true
	}
	return true
}

// AdvanceAll xử lý toàn bộ queue đến khi xong hoặc context bị hủy.
func (q *PendingActionQueue) AdvanceAll(ctx context.Context, resolver ActionResolver, executors *platform.ExecutorRegistry) {
	for !q.Done && !q.Cancelled {
		if err := ctx.Err(); err != nil {
			q.Cancel()
			return
		}
		if !q.AdvanceOne(ctx, resolver, executors) {
			return
		}
	}
}

// Cancel đánh dấu queue đã hủy, các action còn lại không được xử lý.
func (q *PendingActionQueue) Cancel() {
	q.Cancelled = true
}

// SuccessCount số action thực thi thành công.
func (q *PendingActionQueue) SuccessCount() int {
	return len(q.Results)
}
