package model

import "github.com/google/uuid"

// KnowledgeComment is a reader comment on a knowledge post. The author name is
// snapshotted so later profile renames don't rewrite old threads.
type KnowledgeComment struct {
	BaseModel
	PostID uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Name   string    `gorm:"type:varchar(255);not null" json:"name"`
	Text   string    `gorm:"type:text;not null" json:"text" validate:"required"`
}

// KnowledgePost is an article in the knowledge-sharing hub.
type KnowledgePost struct {
	BaseModel
	Title    string `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Content  string `gorm:"type:text;not null" json:"content" validate:"required"`
	Category string `gorm:"type:varchar(50);not null" json:"category" validate:"required"`
	Author   string `gorm:"type:varchar(255);not null" json:"author" validate:"required"`
	Image    string `gorm:"type:varchar(500)" json:"image,omitempty"`
	VideoURL string `gorm:"type:varchar(500)" json:"video_url,omitempty"`

	Comments []KnowledgeComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}
