package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"seller_ops_tests/utils"

	"github.com/stretchr/testify/assert"
)

// TestAutomationModule kiểm tra CRUD automation, action chain và lịch chạy.
// Yêu cầu server chạy với INITMODE=true (mock executor).
func TestAutomationModule(t *testing.T) {
	baseURL := "http://localhost:8080/api/v1"
	waitForHealth(baseURL, 10, 1*time.Second, t)

	client := utils.NewHTTPClient(baseURL, 10)
	client.SetToken(testToken(t))

	var actionID string
	var automationID string

	t.Run("⚙️ ACTION - Tạo automation action", func(t *testing.T) {
		payload := map[string]interface{}{
			"name":        fmt.Sprintf("test_restock_%d", time.Now().UnixNano()),
			"kind":        "update_inventory",
			"title":       "Bổ sung tồn kho (test)",
			"description": "Action dùng cho test tích hợp",
			"params": map[string]interface{}{
				"threshold": 3,
			},
		}

		resp, body, err := client.POST("/automation-actions/insert-one", payload)
		if err != nil {
			t.Fatalf("❌ Lỗi khi tạo action: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "tạo action phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, _ := result["data"].(map[string]interface{})
		actionID, _ = data["id"].(string)
		assert.NotEmpty(t, actionID, "action phải có id")
	})

	t.Run("⚙️ AUTOMATION - Tạo automation với lịch daily", func(t *testing.T) {
		if actionID == "" {
			t.Skip("không có actionID")
		}

		payload := map[string]interface{}{
			"name":     fmt.Sprintf("Test Automation %d", time.Now().UnixNano()),
			"category": "inventory",
			"trigger": map[string]interface{}{
				"type": "schedule",
				"scheduleConfig": map[string]interface{}{
					"frequency": "daily",
					"timeOfDay": "09:00",
					"timezone":  "UTC",
				},
			},
			"actionChain": []map[string]interface{}{
				{
					"actionId":          actionID,
					"order":             1,
					"continueOnFailure": false,
				},
			},
		}

		resp, body, err := client.POST("/automations/insert-one", payload)
		if err != nil {
			t.Fatalf("❌ Lỗi khi tạo automation: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "tạo automation phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, _ := result["data"].(map[string]interface{})
		automationID, _ = data["id"].(string)
		assert.NotEmpty(t, automationID, "automation phải có id")
	})

	t.Run("⏰ NEXT-RUN - Xem trước lịch chạy", func(t *testing.T) {
		if automationID == "" {
			t.Skip("không có automationID")
		}

		resp, body, err := client.GET("/automations/" + automationID + "/next-run")
		if err != nil {
			t.Fatalf("❌ Lỗi khi xem next-run: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "next-run phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, _ := result["data"].(map[string]interface{})
		schedulable, _ := data["schedulable"].(bool)
		assert.True(t, schedulable, "automation daily hợp lệ phải schedulable, body: %s", string(body))

		nextRunAt, _ := data["nextRunAt"].(float64)
		assert.Greater(t, nextRunAt, float64(time.Now().UnixMilli()),
			"nextRunAt phải ở tương lai")
	})

	t.Run("▶️ RUN-NOW - Chạy ngay bỏ qua lịch", func(t *testing.T) {
		if automationID == "" {
			t.Skip("không có automationID")
		}

		resp, body, err := client.POST("/automations/"+automationID+"/run-now", nil)
		if err != nil {
			t.Fatalf("❌ Lỗi khi run-now: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "run-now phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, _ := result["data"].(map[string]interface{})
		status, _ := data["status"].(string)
		// Mock executor xử lý update_inventory → run phải success
		assert.Equal(t, "success", status, "run-now với mock executor phải success, body: %s", string(body))

		successCount, _ := data["successCount"].(float64)
		assert.Equal(t, float64(1), successCount, "chain 1 action phải có successCount=1")
	})

	t.Run("⏸️ SET-ACTIVE - Tắt automation", func(t *testing.T) {
		if automationID == "" {
			t.Skip("không có automationID")
		}

		resp, body, err := client.POST("/automations/"+automationID+"/set-active", map[string]interface{}{
			"isActive": false,
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi set-active: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "set-active phải trả về 200, body: %s", string(body))

		result := parseEnvelope(t, body)
		data, _ := result["data"].(map[string]interface{})
		nextRunAt, _ := data["nextRunAt"].(float64)
		assert.Equal(t, float64(0), nextRunAt, "automation tắt phải có nextRunAt=0")
	})

	t.Run("🗑️ DELETE - Không xóa được action đang dùng trong chain", func(t *testing.T) {
		if actionID == "" || automationID == "" {
			t.Skip("thiếu actionID/automationID")
		}

		// Action đang được automation tham chiếu → từ chối xóa
		resp, body, _ := client.DELETE("/automation-actions/delete-by-id/" + actionID)
		assert.NotEqual(t, http.StatusOK, resp.StatusCode,
			"xóa action đang dùng phải bị từ chối, body: %s", string(body))

		// Xóa automation trước rồi mới xóa được action
		resp, body, _ = client.DELETE("/automations/delete-by-id/" + automationID)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "xóa automation phải trả về 200, body: %s", string(body))

		resp, body, _ = client.DELETE("/automation-actions/delete-by-id/" + actionID)
		assert.Equal(t, http.StatusOK, resp.StatusCode,
			"xóa action sau khi gỡ automation phải trả về 200, body: %s", string(body))
	})
}
