package utility

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, muốn %q", tc.in, got, tc.want)
		}
	}
}

func TestString2ObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	if got := String2ObjectID(id.Hex()); got != id {
		t.Errorf("round-trip hex phải trả về cùng ObjectID, nhận được %s", got.Hex())
	}
	if got := String2ObjectID("không-phải-hex"); got != primitive.NilObjectID {
		t.Errorf("chuỗi không hợp lệ phải trả về NilObjectID, nhận được %s", got.Hex())
	}
}

func TestStringArray2ObjectIDArray(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	got := StringArray2ObjectIDArray([]string{a.Hex(), "hỏng", b.Hex()})

	if len(got) != 3 {
		t.Fatalf("mảng kết quả phải giữ nguyên độ dài, nhận được %d", len(got))
	}
	if got[0] != a || got[2] != b {
		t.Error("phần tử hợp lệ phải giữ nguyên vị trí")
	}
	if got[1] != primitive.NilObjectID {
		t.Errorf("phần tử không hợp lệ phải thành NilObjectID, nhận được %s", got[1].Hex())
	}
}
