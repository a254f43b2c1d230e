package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/api/command/models"
	"seller_ops/internal/common"
)

// stubPoller trả về một chuỗi trạng thái định sẵn, mỗi lần Poll tiêu thụ một phần tử.
type stubPoller struct {
	statuses []string
	err      error
	calls    int
}

func (p *stubPoller) Poll(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID) (*models.Command, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	idx := p.calls - 1
	if idx >= len(p.statuses) {
		idx = len(p.statuses) - 1
	}
	return &models.Command{ID: commandID, Status: p.statuses[idx]}, nil
}

func TestCommandPollWorker_StopsAtTerminalStatus(t *testing.T) {
	poller := &stubPoller{statuses: []string{
		models.CommandStatusExecuting,
		models.CommandStatusExecuting,
		models.CommandStatusCompleted,
	}}
	w := NewCommandPollWorker(poller, 500*time.Millisecond, 10)

	cmd, err := w.Poll(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("không mong đợi lỗi, nhận được: %v", err)
	}
	if cmd.Status != models.CommandStatusCompleted {
		t.Errorf("mong đợi trạng thái completed, nhận được %s", cmd.Status)
	}
	if poller.calls != 3 {
		t.Errorf("mong đợi 3 lần đọc, nhận được %d", poller.calls)
	}
}

func TestCommandPollWorker_ReadErrorStopsImmediately(t *testing.T) {
	poller := &stubPoller{err: errors.New("mongo timeout")}
	w := NewCommandPollWorker(poller, 500*time.Millisecond, 10)

	_, err := w.Poll(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, common.ErrCommandLost) {
		t.Errorf("mong đợi ErrCommandLost khi đọc lỗi, nhận được: %v", err)
	}
	if poller.calls != 1 {
		t.Errorf("không được retry trên phép đọc lỗi, số lần đọc: %d", poller.calls)
	}
}

func TestCommandPollWorker_MaxAttemptsExhausted(t *testing.T) {
	poller := &stubPoller{statuses: []string{models.CommandStatusExecuting}}
	w := NewCommandPollWorker(poller, 500*time.Millisecond, 2)

	_, err := w.Poll(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, common.ErrCommandLost) {
		t.Errorf("mong đợi ErrCommandLost khi hết số lần thử, nhận được: %v", err)
	}
	if poller.calls != 2 {
		t.Errorf("mong đợi đúng 2 lần đọc, nhận được %d", poller.calls)
	}
}

func TestCommandPollWorker_ContextCancelled(t *testing.T) {
	poller := &stubPoller{statuses: []string{models.CommandStatusExecuting}}
	w := NewCommandPollWorker(poller, 500*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Poll(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("mong đợi context.Canceled, nhận được: %v", err)
	}
}
