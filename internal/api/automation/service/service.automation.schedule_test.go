// Package autosvc - Test NextRun: tính thời điểm chạy kế tiếp cho các frequency.
package autosvc

import (
	"testing"
	"time"

	"seller_ops/internal/api/automation/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("không parse được thời gian %s: %v", value, err)
	}
	return parsed.UTC()
}

func TestNextRun_Hourly(t *testing.T) {
	now := mustTime(t, "2026-03-10T14:30:00Z")
	config := &models.ScheduleConfig{Frequency: models.FrequencyHourly}

	next := NextRun(config, now)
	if next == nil {
		t.Fatal("NextRun trả về nil cho hourly")
	}
	if !next.Equal(now.Add(time.Hour)) {
		t.Errorf("hourly phải là now+1h, nhận được %v", next)
	}
}

func TestNextRun_Daily(t *testing.T) {
	config := &models.ScheduleConfig{Frequency: models.FrequencyDaily, TimeOfDay: "09:00"}

	// Trước giờ chạy → hôm nay
	now := mustTime(t, "2026-03-10T08:59:00Z")
	next := NextRun(config, now)
	if next == nil {
		t.Fatal("NextRun trả về nil cho daily")
	}
	want := mustTime(t, "2026-03-10T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("daily trước giờ chạy phải là hôm nay %v, nhận được %v", want, next)
	}

	// Sau giờ chạy → ngày mai
	now = mustTime(t, "2026-03-10T09:01:00Z")
	next = NextRun(config, now)
	want = mustTime(t, "2026-03-11T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("daily sau giờ chạy phải là ngày mai %v, nhận được %v", want, next)
	}

	// Đúng giờ chạy → ngày mai (không chọn thời điểm hiện tại)
	now = mustTime(t, "2026-03-10T09:00:00Z")
	next = NextRun(config, now)
	if !next.Equal(want) {
		t.Errorf("daily đúng giờ chạy phải là ngày mai %v, nhận được %v", want, next)
	}
}

func TestNextRun_Weekly(t *testing.T) {
	config := &models.ScheduleConfig{
		Frequency: models.FrequencyWeekly,
		TimeOfDay: "09:00",
		DayOfWeek: []string{"monday", "friday"},
	}

	// 2026-03-14 là thứ Bảy → wrap sang thứ Hai tuần sau (2026-03-16)
	now := mustTime(t, "2026-03-14T10:00:00Z")
	next := NextRun(config, now)
	if next == nil {
		t.Fatal("NextRun trả về nil cho weekly")
	}
	want := mustTime(t, "2026-03-16T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("weekly từ thứ Bảy phải wrap về thứ Hai %v, nhận được %v", want, next)
	}

	// 2026-03-10 là thứ Ba → thứ Sáu cùng tuần (2026-03-13)
	now = mustTime(t, "2026-03-10T10:00:00Z")
	next = NextRun(config, now)
	want = mustTime(t, "2026-03-13T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("weekly từ thứ Ba phải là thứ Sáu %v, nhận được %v", want, next)
	}

	// Hôm nay không bao giờ được chọn: thứ Hai trước giờ chạy vẫn nhảy sang thứ Sáu
	now = mustTime(t, "2026-03-09T05:00:00Z") // thứ Hai
	next = NextRun(config, now)
	want = mustTime(t, "2026-03-13T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("weekly không được chọn hôm nay, phải là thứ Sáu %v, nhận được %v", want, next)
	}
}

func TestNextRun_Weekly_SingleDayWrapsFullWeek(t *testing.T) {
	config := &models.ScheduleConfig{
		Frequency: models.FrequencyWeekly,
		TimeOfDay: "09:00",
		DayOfWeek: []string{"monday"},
	}

	// Đang thứ Hai, chỉ có thứ Hai trong lịch → thứ Hai tuần sau
	now := mustTime(t, "2026-03-09T08:00:00Z")
	next := NextRun(config, now)
	if next == nil {
		t.Fatal("NextRun trả về nil")
	}
	want := mustTime(t, "2026-03-16T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("weekly một ngày phải wrap đủ 7 ngày, muốn %v, nhận được %v", want, next)
	}
}

func TestNextRun_Monthly_ClampToLastDay(t *testing.T) {
	config := &models.ScheduleConfig{
		Frequency:  models.FrequencyMonthly,
		TimeOfDay:  "09:00",
		DayOfMonth: 31,
	}

	// Tháng Hai 2026 có 28 ngày → ghim về 28
	now := mustTime(t, "2026-02-10T00:00:00Z")
	next := NextRun(config, now)
	if next == nil {
		t.Fatal("NextRun trả về nil cho monthly")
	}
	want := mustTime(t, "2026-02-28T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("monthly ngày 31 trong tháng Hai phải ghim về 28, muốn %v, nhận được %v", want, next)
	}

	// Đã qua ngày ghim → tháng sau, tháng Ba có đủ ngày 31
	now = mustTime(t, "2026-02-28T10:00:00Z")
	next = NextRun(config, now)
	want = mustTime(t, "2026-03-31T09:00:00Z")
	if !next.Equal(want) {
		t.Errorf("monthly sau ngày ghim phải sang tháng Ba ngày 31, muốn %v, nhận được %v", want, next)
	}
}

func TestNextRun_Monthly_DecemberRollsToJanuary(t *testing.T) {
	config := &models.ScheduleConfig{
		Frequency:  models.FrequencyMonthly,
		TimeOfDay:  "00:30",
		DayOfMonth: 1,
	}

	now := mustTime(t, "2026-12-15T00:00:00Z")
	next := NextRun(config, now)
	if next == nil {
		t.Fatal("NextRun trả về nil")
	}
	want := mustTime(t, "2027-01-01T00:30:00Z")
	if !next.Equal(want) {
		t.Errorf("monthly cuối năm phải sang tháng Một năm sau %v, nhận được %v", want, next)
	}
}

func TestNextRun_InvalidConfig(t *testing.T) {
	now := mustTime(t, "2026-03-10T08:00:00Z")

	cases := []struct {
		name   string
		config *models.ScheduleConfig
	}{
		{"config nil", nil},
		{"frequency lạ", &models.ScheduleConfig{Frequency: "yearly", TimeOfDay: "09:00"}},
		{"daily thiếu timeOfDay", &models.ScheduleConfig{Frequency: models.FrequencyDaily}},
		{"daily timeOfDay sai định dạng", &models.ScheduleConfig{Frequency: models.FrequencyDaily, TimeOfDay: "25:00"}},
		{"weekly không có ngày hợp lệ", &models.ScheduleConfig{Frequency: models.FrequencyWeekly, TimeOfDay: "09:00", DayOfWeek: []string{"noday"}}},
		{"monthly thiếu dayOfMonth", &models.ScheduleConfig{Frequency: models.FrequencyMonthly, TimeOfDay: "09:00"}},
		{"monthly dayOfMonth vượt 31", &models.ScheduleConfig{Frequency: models.FrequencyMonthly, TimeOfDay: "09:00", DayOfMonth: 32}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if next := NextRun(tc.config, now); next != nil {
				t.Errorf("config không hợp lệ phải trả về nil, nhận được %v", next)
			}
		})
	}
}

func TestNextRun_Deterministic(t *testing.T) {
	config := &models.ScheduleConfig{
		Frequency: models.FrequencyWeekly,
		TimeOfDay: "09:00",
		DayOfWeek: []string{"friday", "monday", "monday"},
	}
	now := mustTime(t, "2026-03-10T10:00:00Z")

	first := NextRun(config, now)
	second := NextRun(config, now)
	if first == nil || second == nil {
		t.Fatal("NextRun trả về nil")
	}
	if !first.Equal(*second) {
		t.Errorf("NextRun không ổn định: lần 1 %v, lần 2 %v", first, second)
	}
}
