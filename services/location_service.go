package services

import (
	"blogicum/models"

	"gorm.io/gorm"
)

type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

func (s *LocationService) Create(req *models.CreateLocationRequest) (*models.Location, error) {
	location := &models.Location{
		Name:      req.Name,
		Published: models.Published{IsPublished: models.PublishedOrDefault(req.IsPublished)},
	}
	if err := s.db.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) List() ([]models.Location, error) {
	locations := []models.Location{}
	err := s.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (s *LocationService) ListPublished() ([]models.Location, error) {
	locations := []models.Location{}
	err := s.db.Where("is_published = ?", true).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (s *LocationService) SetPublished(id uint, published bool) (*models.Location, error) {
	var location models.Location
	if err := s.db.First(&location, id).Error; err != nil {
		return nil, notFound(err, "location")
	}
	if err := s.db.Model(&location).Update("is_published", published).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// Delete removes the location. Its posts stay, with location_id cleared.
func (s *LocationService) Delete(id uint) error {
	var location models.Location
	if err := s.db.First(&location, id).Error; err != nil {
		return notFound(err, "location")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Location{}, id).Error
	})
}
