package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"seller_ops_tests/utils"

	"github.com/stretchr/testify/assert"
)

// waitForHealth chờ server sẵn sàng trước khi chạy test.
func waitForHealth(baseURL string, attempts int, interval time.Duration, t *testing.T) {
	t.Helper()
	healthURL := baseURL[:len(baseURL)-len("/api/v1")] + "/health"
	for i := 0; i < attempts; i++ {
		resp, err := http.Get(healthURL)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(interval)
	}
	t.Skipf("⚠️ Server không sẵn sàng tại %s, bỏ qua test tích hợp", healthURL)
}

// testToken lấy bearer token từ env. Token phải được ký bằng JWT_SECRET của server
// và chứa userId + organizationId.
func testToken(t *testing.T) string {
	t.Helper()
	token := os.Getenv("SELLER_OPS_TEST_TOKEN")
	if token == "" {
		t.Skip("⚠️ Thiếu SELLER_OPS_TEST_TOKEN, bỏ qua test tích hợp")
	}
	return token
}

func parseEnvelope(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("❌ Không parse được response: %v (body: %s)", err, string(body))
	}
	return result
}

// TestCommandLifecycle kiểm tra vòng đời lệnh: submit → poll → cancel.
// Yêu cầu server chạy với INITMODE=true (mock interpreter/executor).
func TestCommandLifecycle(t *testing.T) {
	baseURL := "http://localhost:8080/api/v1"
	waitForHealth(baseURL, 10, 1*time.Second, t)

	client := utils.NewHTTPClient(baseURL, 10)
	client.SetToken(testToken(t))

	var commandID string

	t.Run("📋 SUBMIT - Gửi lệnh mới", func(t *testing.T) {
		payload := map[string]interface{}{
			"text":            fmt.Sprintf("Tăng giá 10%% cho tất cả listing - test %d", time.Now().UnixNano()),
			"platformTargets": []string{"shopify"},
		}

		resp, body, err := client.POST("/commands/submit", payload)
		if err != nil {
			t.Fatalf("❌ Lỗi khi submit lệnh: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "submit phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, ok := result["data"].(map[string]interface{})
		if !ok {
			t.Fatalf("❌ Response thiếu data: %s", string(body))
		}

		commandID, _ = data["id"].(string)
		assert.NotEmpty(t, commandID, "lệnh phải có id")

		// Mock interpreter trả về plan rỗng → lệnh hoàn tất ngay
		status, _ := data["status"].(string)
		assert.Contains(t, []string{"completed", "awaiting_confirmation"}, status,
			"lệnh sau submit phải ở completed (plan rỗng) hoặc awaiting_confirmation")
	})

	t.Run("📋 SUBMIT - Từ chối lệnh không hợp lệ", func(t *testing.T) {
		// Thiếu platformTargets
		resp, body, _ := client.POST("/commands/submit", map[string]interface{}{
			"text": "lệnh không có platform",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode,
			"submit thiếu platformTargets phải trả về 400, body: %s", string(body))

		// Text toàn khoảng trắng
		resp, body, _ = client.POST("/commands/submit", map[string]interface{}{
			"text":            "   ",
			"platformTargets": []string{"shopify"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode,
			"submit text rỗng phải trả về 400, body: %s", string(body))
	})

	t.Run("📡 POLL - Đọc trạng thái lệnh", func(t *testing.T) {
		if commandID == "" {
			t.Skip("không có commandID từ bước submit")
		}

		resp, body, err := client.GET("/commands/" + commandID + "/poll")
		if err != nil {
			t.Fatalf("❌ Lỗi khi poll lệnh: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "poll phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, _ := result["data"].(map[string]interface{})
		assert.NotNil(t, data, "poll phải trả về bản ghi lệnh")
	})

	t.Run("🚫 CANCEL - Hủy lệnh idempotent", func(t *testing.T) {
		if commandID == "" {
			t.Skip("không có commandID từ bước submit")
		}

		// Hủy lần 1: lệnh đã terminal → no-op trả về bản ghi hiện tại,
		// lệnh đang chờ xác nhận → chuyển sang failed
		resp, body, err := client.POST("/commands/"+commandID+"/cancel", map[string]interface{}{
			"reason": "test hủy lệnh",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi hủy lệnh: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "cancel phải trả về 200, body: %s", string(body))

		firstResult := parseEnvelope(t, body)
		firstData, _ := firstResult["data"].(map[string]interface{})
		firstReason, _ := firstData["failureReason"].(string)

		// Hủy lần 2: idempotent, không đổi failureReason
		resp, body, err = client.POST("/commands/"+commandID+"/cancel", map[string]interface{}{
			"reason": "lý do khác",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi hủy lệnh lần 2: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "cancel lần 2 phải trả về 200")

		secondResult := parseEnvelope(t, body)
		secondData, _ := secondResult["data"].(map[string]interface{})
		secondReason, _ := secondData["failureReason"].(string)
		assert.Equal(t, firstReason, secondReason, "cancel lần 2 không được ghi đè failureReason")
	})

	t.Run("🔎 FIND - Danh sách lệnh", func(t *testing.T) {
		resp, body, err := client.GET("/commands/find")
		if err != nil {
			t.Fatalf("❌ Lỗi khi tìm lệnh: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "find phải trả về 200, body: %s", string(body))
	})

	t.Run("🔒 AUTH - Từ chối request không có token", func(t *testing.T) {
		anonymous := utils.NewHTTPClient(baseURL, 10)
		resp, body, err := anonymous.GET("/commands/find")
		if err != nil {
			t.Fatalf("❌ Lỗi khi gọi không token: %v", err)
		}
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			"request không token phải trả về 401, body: %s", string(body))
	})
}
