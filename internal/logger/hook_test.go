package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newHookedLogger(writers []io.Writer, bufferSize int) (*logrus.Logger, *AsyncHook) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	hook := NewAsyncHook(writers, bufferSize)
	log.AddHook(hook)
	return log, hook
}

func TestAsyncHook_CloseFlushesBufferedEntries(t *testing.T) {
	var buf bytes.Buffer
	log, hook := newHookedLogger([]io.Writer{&buf}, 10)

	log.Info("ghi log qua hook")
	log.Warn("entry thứ hai")

	if err := hook.Close(); err != nil {
		t.Fatalf("không mong đợi lỗi khi Close: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ghi log qua hook") {
		t.Errorf("thiếu entry đầu tiên trong output: %q", out)
	}
	if !strings.Contains(out, "entry thứ hai") {
		t.Errorf("thiếu entry thứ hai trong output: %q", out)
	}
}

func TestAsyncHook_FireAfterCloseWritesSynchronously(t *testing.T) {
	var buf bytes.Buffer
	log, hook := newHookedLogger([]io.Writer{&buf}, 10)

	if err := hook.Close(); err != nil {
		t.Fatalf("không mong đợi lỗi khi Close: %v", err)
	}
	buf.Reset()

	log.Info("sau khi đóng")

	if !strings.Contains(buf.String(), "sau khi đóng") {
		t.Errorf("entry sau Close phải được ghi đồng bộ, output: %q", buf.String())
	}
}

func TestAsyncHook_CloseIdempotent(t *testing.T) {
	_, hook := newHookedLogger([]io.Writer{io.Discard}, 10)

	if err := hook.Close(); err != nil {
		t.Fatalf("không mong đợi lỗi khi Close lần đầu: %v", err)
	}
	if err := hook.Close(); err != nil {
		t.Fatalf("Close lần hai phải là no-op, nhận được lỗi: %v", err)
	}
}

// stalledWriter block mỗi lần Write cho đến khi channel release được đóng
type stalledWriter struct {
	release chan struct{}
}

func (w *stalledWriter) Write(p []byte) (int, error) {
	<-w.release
	return len(p), nil
}

func TestAsyncHook_FireDoesNotBlockWhenWriterStalls(t *testing.T) {
	writer := &stalledWriter{release: make(chan struct{})}
	log, hook := newHookedLogger([]io.Writer{writer}, 2)

	done := make(chan struct{})
	go func() {
		// Nhiều hơn buffer size - entry thừa bị bỏ, Fire vẫn phải return ngay
		for i := 0; i < 20; i++ {
			log.Infof("entry %d", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Fire bị block khi writer chậm, phải bỏ entry thay vì chờ")
	}

	close(writer.release)
	if err := hook.Close(); err != nil {
		t.Fatalf("không mong đợi lỗi khi Close: %v", err)
	}
}
