package platform

import (
	"context"
	"fmt"
	"sync"
)

// MockExecutor là executor giả lập dùng cho chế độ mock và test.
// FailKinds chứa các kind sẽ trả về thất bại; các kind khác thành công.
type MockExecutor struct {
	mu        sync.Mutex
	kinds     []string
	failKinds map[string]string // kind → thông báo lỗi
	executed  []ActionRecord    // lưu lại các action đã chạy, theo thứ tự
}

// NewMockExecutor tạo mới MockExecutor xử lý các kind được liệt kê.
func NewMockExecutor(kinds ...string) *MockExecutor {
	return &MockExecutor{
		kinds:     kinds,
		failKinds: make(map[string]string),
	}
}

// FailOn cấu hình kind sẽ trả về thất bại với message cho trước.
func (m *MockExecutor) FailOn(kind string, message string) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failKinds[kind] = message
	return m
}

// Kinds trả về các kind executor này xử lý.
func (m *MockExecutor) Kinds() []string {
	return m.kinds
}

// Execute giả lập thực thi: ghi nhận action và trả về kết quả theo cấu hình.
func (m *MockExecutor) Execute(ctx context.Context, action ActionRecord) (ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return ExecResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.executed = append(m.executed, action)

	if msg, fail := m.failKinds[action.Kind]; fail {
		return ExecResult{Success: false, Message: msg}, nil
	}

	title := action.Title
	if title == "" {
		title = action.Kind
	}
	return ExecResult{Success: true, Message: fmt.Sprintf("Đã thực hiện: %s", title)}, nil
}

// Executed trả về bản sao danh sách action đã chạy (theo thứ tự).
func (m *MockExecutor) Executed() []ActionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ActionRecord, len(m.executed))
	copy(out, m.executed)
	return out
}
