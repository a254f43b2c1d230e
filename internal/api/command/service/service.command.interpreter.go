package cmdsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"seller_ops/internal/logger"
)

// InterpretResult kết quả phân tích câu lệnh từ AI service.
// Actions là dữ liệu thô (chưa lọc) - caller chịu trách nhiệm sanitize.
type InterpretResult struct {
	Success    bool          `json:"success"`
	Actions    []interface{} `json:"actions"`
	Confidence *float64      `json:"confidence,omitempty"` // nil = service không trả, dùng mặc định
	RiskLevel  string        `json:"riskLevel,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Interpreter phân tích câu lệnh ngôn ngữ tự nhiên thành danh sách action.
// Lỗi trả về chỉ dành cho sự cố hạ tầng (network, timeout);
// câu lệnh không hiểu được thể hiện qua Success=false + Error.
type Interpreter interface {
	Interpret(ctx context.Context, text string, platformTargets []string, fileRefs []string) (*InterpretResult, error)
}

// AIInterpreter gọi AI service bên ngoài để phân tích câu lệnh.
type AIInterpreter struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *fasthttp.Client
}

// NewAIInterpreter tạo interpreter với endpoint và timeout từ config.
func NewAIInterpreter(baseURL, apiKey string, timeout time.Duration) *AIInterpreter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AIInterpreter{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

// Interpret gửi câu lệnh đến AI service và parse kết quả.
func (i *AIInterpreter) Interpret(ctx context.Context, text string, platformTargets []string, fileRefs []string) (*InterpretResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.GetAppLogger()

	payload := map[string]interface{}{
		"text":            text,
		"platformTargets": platformTargets,
	}
	if len(fileRefs) > 0 {
		payload["fileRefs"] = fileRefs
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := i.baseURL + "/interpret"
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if i.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+i.apiKey)
	}
	req.SetBody(jsonData)

	if err := i.client.DoTimeout(req, resp, i.timeout); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"url": url,
		}).Error("🤖 [INTERPRETER] Lỗi khi gọi AI service")
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		log.WithFields(map[string]interface{}{
			"statusCode": resp.StatusCode(),
			"response":   string(resp.Body()),
		}).Error("🤖 [INTERPRETER] AI service trả về lỗi")
		return nil, fmt.Errorf("AI service trả về status %d", resp.StatusCode())
	}

	var result InterpretResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("không parse được response từ AI service: %w", err)
	}

	return &result, nil
}

// MockInterpreter trả về kết quả định sẵn, dùng cho test và môi trường dev.
type MockInterpreter struct {
	Result *InterpretResult
	Err    error
}

// Interpret trả về result/err đã cấu hình sẵn.
func (m *MockInterpreter) Interpret(ctx context.Context, text string, platformTargets []string, fileRefs []string) (*InterpretResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &InterpretResult{Success: true, Actions: []interface{}{}}, nil
}
