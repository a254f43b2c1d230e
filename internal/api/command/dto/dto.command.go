package cmddto

// CommandSubmitInput dữ liệu tạo command mới qua endpoint /submit.
type CommandSubmitInput struct {
	Text            string   `json:"text" validate:"required" maxLength:"2000"`
	PlatformTargets []string `json:"platformTargets" validate:"required,min=1,dive,required"`
	FileRefs        []string `json:"fileRefs,omitempty"`
}

// CommandCancelInput lý do hủy command (tùy chọn).
type CommandCancelInput struct {
	Reason string `json:"reason,omitempty" maxLength:"500"`
}

// CreateCommandInput và UpdateCommandInput chỉ tồn tại để thỏa generic
// BaseHandler - command không được tạo/sửa qua CRUD route, mọi thay đổi
// đi qua /submit, /confirm, /cancel.
type CreateCommandInput struct {
	Text            string   `json:"text" validate:"required" transform:"map=Text"`
	PlatformTargets []string `json:"platformTargets" validate:"required,min=1" transform:"map=PlatformTargets"`
}

// UpdateCommandInput xem ghi chú tại CreateCommandInput.
type UpdateCommandInput struct {
	Text string `json:"text,omitempty" transform:"map=Text"`
}

// CreateCommandAttachmentInput dữ liệu tạo attachment
type CreateCommandAttachmentInput struct {
	CommandID string `json:"commandId,omitempty" transform:"str_objectid,optional,map=CommandID"`
	FileRef   string `json:"fileRef" validate:"required" transform:"map=FileRef"`
	Name      string `json:"name" validate:"required" transform:"map=Name"`
	MimeType  string `json:"mimeType,omitempty" transform:"map=MimeType"`
	Size      int64  `json:"size,omitempty" transform:"map=Size"`
	StorageID string `json:"storageId,omitempty" transform:"map=StorageID"`
}

// UpdateCommandAttachmentInput dữ liệu cập nhật attachment
type UpdateCommandAttachmentInput struct {
	Name     string `json:"name,omitempty" transform:"map=Name"`
	MimeType string `json:"mimeType,omitempty" transform:"map=MimeType"`
}
