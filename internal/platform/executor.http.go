package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultExecutorKinds là danh sách action kind mặc định mà executor service xử lý
// khi không được cấu hình qua EXECUTOR_KINDS.
var DefaultExecutorKinds = []string{
	"update_price",
	"update_inventory",
	"update_listing",
	"create_listing",
	"reply_message",
	"create_discount",
}

// HTTPExecutor chuyển tiếp action tới executor service bên ngoài qua HTTP.
// Executor service là collaborator thực sự nói chuyện với API của từng sàn.
type HTTPExecutor struct {
	baseURL string
	kinds   []string
	client  *http.Client
}

// NewHTTPExecutor tạo mới HTTPExecutor.
// kinds rỗng sẽ dùng DefaultExecutorKinds. timeout <= 0 mặc định 30 giây.
func NewHTTPExecutor(baseURL string, kinds []string, timeout time.Duration) *HTTPExecutor {
	if len(kinds) == 0 {
		kinds = DefaultExecutorKinds
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPExecutor{
		baseURL: strings.TrimRight(baseURL, "/"),
		kinds:   kinds,
		client:  &http.Client{Timeout: timeout},
	}
}

// ParseExecutorKinds tách chuỗi kind phân cách bởi dấu phẩy thành slice.
// Chuỗi rỗng trả về nil (caller sẽ dùng danh sách mặc định).
func ParseExecutorKinds(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	kinds := []string{}
	for _, part := range strings.Split(raw, ",") {
		kind := strings.TrimSpace(part)
		if kind != "" {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Kinds trả về các kind executor này xử lý.
func (e *HTTPExecutor) Kinds() []string {
	return e.kinds
}

// Execute gửi action tới executor service và đọc kết quả.
// Lỗi mạng trả về qua error; sàn từ chối action trả về ExecResult{Success: false}.
func (e *HTTPExecutor) Execute(ctx context.Context, action ActionRecord) (ExecResult, error) {
	payload := map[string]interface{}{
		"kind":     action.Kind,
		"title":    action.Title,
		"platform": action.Platform,
		"params":   action.Params,
	}
	if action.FileRef != "" {
		payload["fileRef"] = action.FileRef
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return ExecResult{}, fmt.Errorf("không thể marshal action: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/execute", bytes.NewBuffer(jsonData))
	if err != nil {
		return ExecResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return ExecResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ExecResult{}, fmt.Errorf("executor service trả về status %d", resp.StatusCode)
	}

	var result ExecResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ExecResult{}, fmt.Errorf("không thể decode kết quả từ executor service: %v", err)
	}

	return result, nil
}
