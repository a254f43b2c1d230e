// Package platform - Test sanitize action thô và dispatch theo kind (fail closed).
package platform

import (
	"context"
	"testing"
)

func TestSanitizeActions_FiltersMalformedEntries(t *testing.T) {
	raw := []interface{}{
		nil,                           // entry null
		"not an object",               // không phải object
		42,                            // số
		map[string]interface{}{},      // thiếu kind
		map[string]interface{}{"kind": ""},  // kind rỗng
		map[string]interface{}{"kind": 123}, // kind không phải string
		map[string]interface{}{
			"kind":    "update_price",
			"title":   "Tăng giá",
			"fileRef": "f1",
			"params":  map[string]interface{}{"percent": 10},
		},
	}

	actions := SanitizeActions(raw)
	if actions == nil {
		t.Fatal("SanitizeActions không được trả về nil")
	}
	if len(actions) != 1 {
		t.Fatalf("chỉ 1 entry hợp lệ phải được giữ lại, nhận được %d", len(actions))
	}
	if actions[0].Kind != "update_price" || actions[0].Title != "Tăng giá" || actions[0].FileRef != "f1" {
		t.Errorf("entry hợp lệ bị biến dạng: %+v", actions[0])
	}
	if actions[0].Params["percent"] != 10 {
		t.Errorf("params không được giữ nguyên: %v", actions[0].Params)
	}
}

func TestSanitizeActions_EmptyInput(t *testing.T) {
	if actions := SanitizeActions(nil); actions == nil || len(actions) != 0 {
		t.Errorf("input nil phải trả về slice rỗng, nhận được %v", actions)
	}
	if actions := SanitizeActions([]interface{}{}); actions == nil || len(actions) != 0 {
		t.Errorf("input rỗng phải trả về slice rỗng, nhận được %v", actions)
	}
}

func TestExecutorRegistry_FailClosed(t *testing.T) {
	registry := NewExecutorRegistry()
	registry.Register(NewMockExecutor("known"))

	// Kind không đăng ký → thất bại có kiểm soát, không error
	result, err := registry.Execute(context.Background(), ActionRecord{Kind: "unknown"})
	if err != nil {
		t.Fatalf("kind không đăng ký không được trả về error, nhận được %v", err)
	}
	if result.Success {
		t.Error("kind không đăng ký phải có Success=false")
	}
	if result.Message == "" {
		t.Error("kết quả thất bại phải có message")
	}

	// Action không có kind
	result, err = registry.Execute(context.Background(), ActionRecord{})
	if err != nil {
		t.Fatalf("action không kind không được trả về error, nhận được %v", err)
	}
	if result.Success {
		t.Error("action không kind phải có Success=false")
	}

	// Kind đã đăng ký chạy bình thường
	result, err = registry.Execute(context.Background(), ActionRecord{Kind: "known"})
	if err != nil {
		t.Fatalf("kind đã đăng ký lỗi: %v", err)
	}
	if !result.Success {
		t.Errorf("kind đã đăng ký phải thành công, nhận được %+v", result)
	}
}

func TestMockExecutor_FailOn(t *testing.T) {
	executor := NewMockExecutor("a", "b").FailOn("b", "hết hạn mức")

	result, err := executor.Execute(context.Background(), ActionRecord{Kind: "b"})
	if err != nil {
		t.Fatalf("FailOn phải trả thất bại nghiệp vụ, không error: %v", err)
	}
	if result.Success || result.Message != "hết hạn mức" {
		t.Errorf("kết quả FailOn sai: %+v", result)
	}

	result, _ = executor.Execute(context.Background(), ActionRecord{Kind: "a"})
	if !result.Success {
		t.Errorf("kind không bị FailOn phải thành công: %+v", result)
	}
}

func TestParseExecutorKinds(t *testing.T) {
	if kinds := ParseExecutorKinds(""); kinds != nil {
		t.Errorf("chuỗi rỗng phải trả về nil, nhận được %v", kinds)
	}
	if kinds := ParseExecutorKinds("  "); kinds != nil {
		t.Errorf("chuỗi toàn khoảng trắng phải trả về nil, nhận được %v", kinds)
	}

	kinds := ParseExecutorKinds("update_price, reply_message ,,create_listing")
	want := []string{"update_price", "reply_message", "create_listing"}
	if len(kinds) != len(want) {
		t.Fatalf("muốn %v, nhận được %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("phần tử %d: muốn %s, nhận được %s", i, want[i], kinds[i])
		}
	}
}
