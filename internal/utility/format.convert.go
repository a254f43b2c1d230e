package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormatBytes đổi số bytes sang chuỗi dễ đọc (B, KB, MB, ...).
// Dùng cho số liệu bộ nhớ trong health check.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// String2ObjectID đổi chuỗi hex sang ObjectID, chuỗi không hợp lệ trả về NilObjectID.
// Caller đã validate định dạng trước (primitive.IsValidObjectID) nên không cần error.
func String2ObjectID(id string) primitive.ObjectID {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}

// StringArray2ObjectIDArray đổi mảng chuỗi hex sang mảng ObjectID.
// Phần tử không hợp lệ thành NilObjectID, giữ nguyên vị trí.
func StringArray2ObjectIDArray(ids []string) []primitive.ObjectID {
	objectIDs := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		objectIDs[i] = String2ObjectID(id)
	}
	return objectIDs
}
