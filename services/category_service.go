package services

import (
	"fmt"

	"blogicum/models"

	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) Create(req *models.CreateCategoryRequest) (*models.Category, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("category %q %w", req.Slug, ErrConflict)
	}

	category := &models.Category{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		Published:   models.Published{IsPublished: models.PublishedOrDefault(req.IsPublished)},
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List() ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.Order("title ASC").Find(&categories).Error
	return categories, err
}

func (s *CategoryService) ListPublished() ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.Where("is_published = ?", true).Order("title ASC").Find(&categories).Error
	return categories, err
}

func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &category, nil
}

func (s *CategoryService) SetPublished(slug string, published bool) (*models.Category, error) {
	category, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(category).Update("is_published", published).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category. Its posts stay, with category_id cleared.
func (s *CategoryService) Delete(slug string) error {
	category, err := s.GetBySlug(slug)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, category.ID).Error
	})
}
