// Package utility - Test các helper thời gian và cache dùng cho quota, resolver.
package utility

import (
	"testing"
	"time"
)

func TestMonthStart(t *testing.T) {
	input := time.Date(2026, time.March, 17, 15, 30, 45, 123, time.UTC)
	got := MonthStart(input)
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthStart muốn %v, nhận được %v", want, got)
	}

	// Ngày đầu tháng giữ nguyên ngày, xóa giờ
	input = time.Date(2026, time.March, 1, 0, 0, 0, 1, time.UTC)
	got = MonthStart(input)
	if !got.Equal(want) {
		t.Errorf("MonthStart đầu tháng muốn %v, nhận được %v", want, got)
	}
}

func TestUnixMilli(t *testing.T) {
	input := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := UnixMilli(input); got != input.UnixMilli() {
		t.Errorf("UnixMilli muốn %d, nhận được %d", input.UnixMilli(), got)
	}
}

func TestCache_SetGetDelete(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	if _, found := cache.Get("missing"); found {
		t.Error("key chưa set không được tìm thấy")
	}

	cache.Set("k", "v")
	value, found := cache.Get("k")
	if !found || value != "v" {
		t.Errorf("muốn tìm thấy 'v', nhận được %v (found=%v)", value, found)
	}

	cache.Delete("k")
	if _, found := cache.Get("k"); found {
		t.Error("key đã xóa không được tìm thấy")
	}
}

func TestCache_CleanupFlushesEntries(t *testing.T) {
	cache := NewCache(time.Minute, 10*time.Millisecond)
	defer cache.Stop()

	cache.Set("k", "v")

	// Vòng dọn dẹp xóa toàn bộ entry theo chu kỳ cleanup
	deadline := time.Now().Add(time.Second)
	for {
		if _, found := cache.Get("k"); !found {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("entry vẫn còn sau chu kỳ dọn dẹp")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
