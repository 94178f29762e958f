package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions.
const ActionUnmaskedID = "UNMASKED_ID"

// AuditLog is a write-once record of a sensitive disclosure. It deliberately
// does not embed BaseModel: there is no update or delete path, soft or
// otherwise.
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ViewerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"viewer_id"`
	Viewer       *User     `gorm:"foreignKey:ViewerID" json:"viewer,omitempty"`
	TargetUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"target_user_id"`
	TargetUser   *User     `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
	Action       string    `gorm:"type:varchar(50);not null" json:"action"`
	IP           string    `gorm:"type:varchar(64)" json:"ip"`
	UserAgent    string    `gorm:"type:varchar(500)" json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
