package platform

// Package platform định nghĩa contract thực thi action trên các sàn thương mại
// (Shopify, Etsy, ...). Mỗi sàn có một Executor riêng, đăng ký vào ExecutorRegistry.
// Action có kind không được executor nào nhận sẽ thất bại có kiểm soát (fail closed),
// không bao giờ panic.

import (
	"context"
	"fmt"

	"seller_ops/internal/registry"
)

// ActionRecord là một action do interpreter đề xuất hoặc cấu hình sẵn trong automation.
// Kind là discriminator; Params chứa các field riêng của từng loại action.
type ActionRecord struct {
	Kind        string                 `json:"kind" bson:"kind"`
	Title       string                 `json:"title,omitempty" bson:"title,omitempty"`
	Description string                 `json:"description,omitempty" bson:"description,omitempty"`
	Platform    string                 `json:"platform,omitempty" bson:"platform,omitempty"`
	FileRef     string                 `json:"fileRef,omitempty" bson:"fileRef,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty" bson:"params,omitempty"`
}

// ExecResult là kết quả thực thi một action.
type ExecResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Executor thực thi một action trên một sàn cụ thể.
// Execute không được panic: mọi thất bại trả về qua ExecResult hoặc error.
type Executor interface {
	// Kinds trả về danh sách action kind mà executor này xử lý được.
	Kinds() []string

	// Execute thực thi action. Trả về error chỉ khi lỗi hạ tầng (mạng, context);
	// action thất bại về nghiệp vụ trả về ExecResult{Success: false}.
	Execute(ctx context.Context, action ActionRecord) (ExecResult, error)
}

// ExecutorRegistry ánh xạ action kind → Executor.
type ExecutorRegistry struct {
	executors *registry.Registry[Executor]
}

// NewExecutorRegistry tạo mới một ExecutorRegistry rỗng.
func NewExecutorRegistry() *ExecutorRegistry {
	return &ExecutorRegistry{
		executors: registry.NewRegistry[Executor](),
	}
}

// Register đăng ký executor cho tất cả các kind nó khai báo.
func (r *ExecutorRegistry) Register(e Executor) {
	for _, kind := range e.Kinds() {
		r.executors.Register(kind, e)
	}
}

// Execute dispatch action tới executor theo kind.
// Kind không được đăng ký → trả về thất bại có kiểm soát, không error.
func (r *ExecutorRegistry) Execute(ctx context.Context, action ActionRecord) (ExecResult, error) {
	if action.Kind == "" {
		return ExecResult{Success: false, Message: "Action không có kind"}, nil
	}

	executor, exist := r.executors.Get(action.Kind)
	if !exist {
		return ExecResult{Success: false, Message: fmt.Sprintf("Không hỗ trợ loại action '%s'", action.Kind)}, nil
	}

	return executor.Execute(ctx, action)
}

// Kinds trả về danh sách kind đã đăng ký.
func (r *ExecutorRegistry) Kinds() []string {
	return r.executors.Names()
}

// SanitizeActions lọc các action record không hợp lệ từ dữ liệu thô (JSON decode).
// Entry null, không phải object, hoặc thiếu kind đều bị loại bỏ thay vì để crash
// phía hiển thị hay thực thi. Luôn trả về slice, không bao giờ nil.
func SanitizeActions(raw []interface{}) []ActionRecord {
	actions := make([]ActionRecord, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok || m == nil {
			continue
		}
		kind, ok := m["kind"].(string)
		if !ok || kind == "" {
			continue
		}

		action := ActionRecord{Kind: kind}
		if v, ok := m["title"].(string); ok {
			action.Title = v
		}
		if v, ok := m["description"].(string); ok {
			action.Description = v
		}
		if v, ok := m["platform"].(string); ok {
			action.Platform = v
		}
		if v, ok := m["fileRef"].(string); ok {
			action.FileRef = v
		}
		if v, ok := m["params"].(map[string]interface{}); ok {
			action.Params = v
		}
		actions = append(actions, action)
	}
	return actions
}
