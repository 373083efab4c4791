package models

import "time"

type Comment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Text     string `json:"text" gorm:"type:text;not null"`
	PostID   uint   `json:"post_id" gorm:"not null;index"`
	Post     *Post  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID uint   `json:"author_id" gorm:"not null;index"`
	Author   User   `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Published
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}
