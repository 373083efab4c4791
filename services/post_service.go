package services

import (
	"fmt"
	"mime/multipart"
	"time"

	"blogicum/models"

	"gorm.io/gorm"
)

type PostService struct {
	db       *gorm.DB
	media    *MediaService
	pageSize int
	now      func() time.Time
}

func NewPostService(db *gorm.DB, media *MediaService, pageSize int) *PostService {
	return &PostService{
		db:       db,
		media:    media,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// ListPublished is the public index: published posts only.
func (s *PostService) ListPublished(page int) (*models.PostPage, error) {
	return s.paginate(page, func() *gorm.DB {
		return s.db.Model(&models.Post{}).Scopes(PublishedPosts(s.now()))
	})
}

// ListByCategory lists the published posts of a published category.
func (s *PostService) ListByCategory(slug string, page int) (*models.Category, *models.PostPage, error) {
	var category models.Category
	if err := s.db.Where("slug = ? AND is_published = ?", slug, true).First(&category).Error; err != nil {
		return nil, nil, notFound(err, "category")
	}

	posts, err := s.paginate(page, func() *gorm.DB {
		return s.db.Model(&models.Post{}).
			Scopes(PublishedPosts(s.now())).
			Where("posts.category_id = ?", category.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	return &category, posts, nil
}

// ListByAuthor lists the posts of username. The author sees every own post,
// anybody else only the published ones.
func (s *PostService) ListByAuthor(username string, viewerID uint, page int) (*models.User, *models.PostPage, error) {
	var author models.User
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		return nil, nil, notFound(err, "user")
	}

	posts, err := s.paginate(page, func() *gorm.DB {
		query := s.db.Model(&models.Post{}).Where("posts.author_id = ?", author.ID)
		if author.ID != viewerID {
			query = query.Scopes(PublishedPosts(s.now()))
		}
		return query
	})
	if err != nil {
		return nil, nil, err
	}

	return &author, posts, nil
}

// GetByID loads a post regardless of its publication state.
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.Model(&models.Post{}).
		Scopes(WithCommentCount, withRelations).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, notFound(err, "post")
	}
	return &post, nil
}

// GetVisible loads a post as viewerID is allowed to see it: authors see
// their own posts unconditionally, everyone else only published ones.
func (s *PostService) GetVisible(id, viewerID uint) (*models.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 && post.AuthorID == viewerID {
		return post, nil
	}

	var count int64
	err = s.db.Model(&models.Post{}).
		Scopes(PublishedPosts(s.now())).
		Where("posts.id = ?", id).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("post %w", ErrNotFound)
	}
	return post, nil
}

func (s *PostService) Create(authorID uint, req *models.CreatePostRequest, image *multipart.FileHeader) (*models.Post, error) {
	if err := s.checkReferences(req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      req.Title,
		Text:       req.Text,
		PubDate:    s.now(),
		AuthorID:   authorID,
		CategoryID: nonZero(req.CategoryID),
		LocationID: nonZero(req.LocationID),
		Published:  models.Published{IsPublished: models.PublishedOrDefault(req.IsPublished)},
	}
	if req.PubDate != nil {
		post.PubDate = *req.PubDate
	}

	if image != nil {
		path, err := s.media.SavePostImage(image)
		if err != nil {
			return nil, err
		}
		post.Image = path
	}

	if err := s.db.Create(post).Error; err != nil {
		s.media.Remove(post.Image)
		return nil, err
	}

	return s.GetByID(post.ID)
}

func (s *PostService) Update(id uint, req *models.UpdatePostRequest, image *multipart.FileHeader) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		return nil, notFound(err, "post")
	}

	if err := s.checkReferences(req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.PubDate != nil {
		updates["pub_date"] = req.PubDate.UTC()
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if req.CategoryID != nil {
		updates["category_id"] = nonZero(req.CategoryID)
	}
	if req.LocationID != nil {
		updates["location_id"] = nonZero(req.LocationID)
	}

	oldImage := post.Image
	if image != nil {
		path, err := s.media.SavePostImage(image)
		if err != nil {
			return nil, err
		}
		updates["image"] = path
	} else if req.RemoveImage {
		updates["image"] = ""
	}

	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			if path, ok := updates["image"].(string); ok && image != nil {
				s.media.Remove(path)
			}
			return nil, err
		}
	}

	if _, replaced := updates["image"]; replaced && oldImage != "" {
		s.media.Remove(oldImage)
	}

	return s.GetByID(id)
}

// Delete removes the post together with its comments.
func (s *PostService) Delete(id uint) error {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		return notFound(err, "post")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}

	s.media.Remove(post.Image)
	return nil
}

func (s *PostService) paginate(page int, query func() *gorm.DB) (*models.PostPage, error) {
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	pagination := models.NewPagination(page, s.pageSize, total)
	if !pagination.Valid() {
		return nil, fmt.Errorf("page %d: %w", page, ErrInvalidPage)
	}

	posts := []models.Post{}
	err := query().
		Scopes(WithCommentCount, withRelations).
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &models.PostPage{Posts: posts, Pagination: pagination}, nil
}

func (s *PostService) checkReferences(categoryID, locationID *uint) error {
	if id := nonZero(categoryID); id != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("category %d %w", *id, ErrInvalidReference)
		}
	}
	if id := nonZero(locationID); id != nil {
		var count int64
		if err := s.db.Model(&models.Location{}).Where("id = ?", *id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("location %d %w", *id, ErrInvalidReference)
		}
	}
	return nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
