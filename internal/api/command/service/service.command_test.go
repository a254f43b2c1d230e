package cmdsvc

import "testing"

func TestClampConfidence(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"trong khoảng giữ nguyên", 0.75, 0.75},
		{"biên dưới giữ nguyên", 0, 0},
		{"biên trên giữ nguyên", 1, 1},
		{"âm kẹp về 0", -0.3, 0},
		{"vượt 1 kẹp về 1", 1.7, 1},
		{"vượt xa kẹp về 1", 42, 1},
	}

	for _, tc := range cases {
		if got := clampConfidence(tc.in); got != tc.want {
			t.Errorf("%s: clampConfidence(%v) = %v, muốn %v", tc.name, tc.in, got, tc.want)
		}
	}
}
