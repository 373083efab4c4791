package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:256;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	PubDate    time.Time `json:"pub_date" gorm:"not null;index"`
	Image      string    `json:"image,omitempty"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index"`
	Author     User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LocationID *uint     `json:"location_id" gorm:"index"`
	Location   *Location `json:"location,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CategoryID *uint     `json:"category_id" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Published
	UpdatedAt time.Time `json:"updated_at"`

	// Filled only by queries that select the comment count.
	CommentCount int64 `json:"comment_count" gorm:"->;-:migration"`
}

// BeforeSave keeps pub_date in UTC so the publication cutoff compares
// consistently on every driver.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.PubDate = p.PubDate.UTC()
	return nil
}

// CreatePostRequest binds from JSON or from a multipart form carrying an
// "image" file.
type CreatePostRequest struct {
	Title       string     `json:"title" form:"title" binding:"required,max=256"`
	Text        string     `json:"text" form:"text" binding:"required"`
	PubDate     *time.Time `json:"pub_date" form:"pub_date" time_format:"2006-01-02T15:04:05Z07:00"`
	LocationID  *uint      `json:"location_id" form:"location_id"`
	CategoryID  *uint      `json:"category_id" form:"category_id"`
	IsPublished *bool      `json:"is_published" form:"is_published"`
}

// UpdatePostRequest changes only the fields that are present. A zero
// location_id or category_id clears the reference.
type UpdatePostRequest struct {
	Title       *string    `json:"title" form:"title" binding:"omitempty,min=1,max=256"`
	Text        *string    `json:"text" form:"text" binding:"omitempty,min=1"`
	PubDate     *time.Time `json:"pub_date" form:"pub_date" time_format:"2006-01-02T15:04:05Z07:00"`
	LocationID  *uint      `json:"location_id" form:"location_id"`
	CategoryID  *uint      `json:"category_id" form:"category_id"`
	IsPublished *bool      `json:"is_published" form:"is_published"`
	RemoveImage bool       `json:"remove_image" form:"remove_image"`
}

type PostDetailResponse struct {
	Post     *Post     `json:"post"`
	Comments []Comment `json:"comments"`
}
