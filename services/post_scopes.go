package services

import (
	"time"

	"gorm.io/gorm"
)

// PublishedPosts keeps posts that are flagged published, whose pub_date has
// passed, and whose category (when set) is published too.
func PublishedPosts(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND posts.pub_date <= ?", true, now.UTC()).
			Where("(posts.category_id IS NULL OR categories.is_published = ?)", true)
	}
}

// WithCommentCount selects the number of comments of every post as
// comment_count, newest publication first.
func WithCommentCount(db *gorm.DB) *gorm.DB {
	return db.
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Order("posts.pub_date DESC").
		Order("posts.id DESC")
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Category").Preload("Location")
}
