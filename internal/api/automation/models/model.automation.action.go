package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"seller_ops/internal/platform"
)

// AutomationAction một action cấu hình sẵn, được action chain tham chiếu theo id.
// Collection: automation_actions
type AutomationAction struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name        string                 `json:"name" bson:"name"`
	Kind        string                 `json:"kind" bson:"kind" index:"single:1"` // Discriminator cho executor
	Title       string                 `json:"title,omitempty" bson:"title,omitempty"`
	Description string                 `json:"description,omitempty" bson:"description,omitempty"`
	Platform    string                 `json:"platform,omitempty" bson:"platform,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty" bson:"params,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`

	OwnerOrganizationID primitive.ObjectID `json:"ownerOrganizationId" bson:"ownerOrganizationId" index:"single:1"`

	// Relationship definitions - không export, chỉ dùng cho tag parsing
	_Relationships struct{} `relationship:"collection:automations,field:actionChain.actionId,message:Không thể xóa action vì đang được %d automation sử dụng trong action chain. Vui lòng gỡ action khỏi các automation trước."`
}

// ToActionRecord chuyển action cấu hình sẵn thành record cho executor.
func (a *AutomationAction) ToActionRecord() platform.ActionRecord {
	return platform.ActionRecord{
		Kind:        a.Kind,
		Title:       a.Title,
		Description: a.Description,
		Platform:    a.Platform,
		Params:      a.Params,
	}
}
