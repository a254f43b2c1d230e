package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommandAttachment file user đính kèm trong hội thoại, được interpreter
// tham chiếu qua fileRef và resolve lúc thực thi (late-bound).
// Collection: command_attachments
type CommandAttachment struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	CommandID primitive.ObjectID `json:"commandId,omitempty" bson:"commandId,omitempty" index:"single:1"`
	FileRef   string             `json:"fileRef" bson:"fileRef" index:"single:1"` // Định danh file trong hội thoại
	Name      string             `json:"name" bson:"name"`
	MimeType  string             `json:"mimeType,omitempty" bson:"mimeType,omitempty"`
	Size      int64              `json:"size,omitempty" bson:"size,omitempty"`
	StorageID string             `json:"storageId,omitempty" bson:"storageId,omitempty"` // Khóa trong kho lưu trữ file

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`

	OwnerOrganizationID primitive.ObjectID `json:"ownerOrganizationId" bson:"ownerOrganizationId" index:"single:1"`
}
