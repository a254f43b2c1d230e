package autosvc

import (
	"strconv"
	"strings"
	"time"

	"seller_ops/internal/api/automation/models"
)

// weekdayNumbers ánh xạ tên thứ sang số (chủ nhật = 0, khớp time.Weekday).
var weekdayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// NextRun tính thời điểm chạy kế tiếp của một schedule config so với now.
// Hàm thuần: không I/O, không mutate config, gọi hai lần cùng (config, now)
// cho cùng kết quả. Config thiếu trường bắt buộc hoặc frequency lạ trả về
// nil ("không lên lịch được") thay vì lỗi.
//
// Chính sách tràn ngày trong tháng: dayOfMonth vượt quá số ngày của tháng
// đích được GHIM về ngày cuối tháng (31 → 28/29 với tháng Hai), không nhảy
// sang tháng sau.
func NextRun(config *models.ScheduleConfig, now time.Time) *time.Time {
	if config == nil {
		return nil
	}

	loc := resolveLocation(config.Timezone, now)
	now = now.In(loc)

	switch config.Frequency {
	case models.FrequencyHourly:
		// Offset cố định, không căn theo đầu giờ
		next := now.Add(time.Hour)
		return &next

	case models.FrequencyDaily:
		hour, minute, ok := parseTimeOfDay(config.TimeOfDay)
		if !ok {
			return nil
		}
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return &next

	case models.FrequencyWeekly:
		hour, minute, ok := parseTimeOfDay(config.TimeOfDay)
		if !ok {
			return nil
		}
		days := normalizeWeekdays(config.DayOfWeek)
		if len(days) == 0 {
			return nil
		}
		current := int(now.Weekday())
		// Thứ nhỏ nhất lớn hơn hôm nay; không có thì wrap về thứ nhỏ nhất
		// của tuần sau. Hôm nay không bao giờ được chọn.
		target := -1
		for _, d := range days {
			if d > current {
				target = d
				break
			}
		}
		var offset int
		if target >= 0 {
			offset = target - current
		} else {
			offset = 7 - current + days[0]
		}
		next := time.Date(now.Year(), now.Month(), now.Day()+offset, hour, minute, 0, 0, loc)
		return &next

	case models.FrequencyMonthly:
		hour, minute, ok := parseTimeOfDay(config.TimeOfDay)
		if !ok {
			return nil
		}
		if config.DayOfMonth < 1 || config.DayOfMonth > 31 {
			return nil
		}
		next := monthlyOccurrence(now.Year(), now.Month(), config.DayOfMonth, hour, minute, loc)
		if !next.After(now) {
			year, month := now.Year(), now.Month()+1
			if month > time.December {
				month = time.January
				year++
			}
			next = monthlyOccurrence(year, month, config.DayOfMonth, hour, minute, loc)
		}
		return &next
	}

	return nil
}

// monthlyOccurrence dựng thời điểm trong tháng với day ghim về cuối tháng nếu vượt.
func monthlyOccurrence(year int, month time.Month, day int, hour int, minute int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// parseTimeOfDay parse chuỗi "HH:MM".
func parseTimeOfDay(s string) (int, int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// normalizeWeekdays chuyển tên thứ sang số, bỏ tên không hợp lệ, sort tăng dần.
func normalizeWeekdays(names []string) []int {
	seen := map[int]bool{}
	days := make([]int, 0, len(names))
	for _, name := range names {
		n, ok := weekdayNumbers[strings.ToLower(strings.TrimSpace(name))]
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		days = append(days, n)
	}
	// Insertion sort - danh sách tối đa 7 phần tử
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j] < days[j-1]; j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
	return days
}

// resolveLocation load IANA timezone, fallback về location của now khi thiếu/sai.
func resolveLocation(tz string, now time.Time) *time.Location {
	if tz == "" {
		return now.Location()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return now.Location()
	}
	return loc
}
