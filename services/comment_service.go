package services

import (
	"blogicum/models"

	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListForPost returns the published comments of a post plus any the viewer
// wrote, oldest first.
func (s *CommentService) ListForPost(postID, viewerID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Where("(is_published = ? OR author_id = ?)", true, viewerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// Create attaches a comment to an existing post. The returned comment has
// Post loaded.
func (s *CommentService) Create(postID, authorID uint, req *models.CommentRequest) (*models.Comment, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, notFound(err, "post")
	}

	comment := &models.Comment{
		Text:      req.Text,
		PostID:    postID,
		AuthorID:  authorID,
		Published: models.Published{IsPublished: true},
	}
	if err := s.db.Omit("Post", "Author").Create(comment).Error; err != nil {
		return nil, err
	}

	created, err := s.GetForPost(postID, comment.ID)
	if err != nil {
		return nil, err
	}
	created.Post = &post
	return created, nil
}

// GetForPost loads a comment only if it belongs to postID.
func (s *CommentService) GetForPost(postID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return &comment, nil
}

func (s *CommentService) Update(postID, commentID uint, req *models.CommentRequest) (*models.Comment, error) {
	comment, err := s.GetForPost(postID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Comment{ID: comment.ID}).Update("text", req.Text).Error; err != nil {
		return nil, err
	}

	return s.GetForPost(postID, commentID)
}

func (s *CommentService) Delete(postID, commentID uint) error {
	result := s.db.Where("id = ? AND post_id = ?", commentID, postID).Delete(&models.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}
