package services

import (
	"fmt"
	"strings"

	"blogicum/models"

	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	media *MediaService
}

func NewUserService(db *gorm.DB, media *MediaService) *UserService {
	return &UserService{db: db, media: media}
}

func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkUnique(0, req.Username, email); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// Exists reports whether an account with the given id is still present.
func (s *UserService) Exists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUserByLogin looks a user up by username or, failing that, by email.
func (s *UserService) GetUserByLogin(login string) (*models.User, error) {
	user, err := s.GetUserByUsername(login)
	if err == nil {
		return user, nil
	}

	var byEmail models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(login))).First(&byEmail).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &byEmail, nil
}

func (s *UserService) UpdateProfile(id uint, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	username, email := "", ""
	if req.Username != nil && *req.Username != user.Username {
		username = *req.Username
	}
	if req.Email != nil {
		if e := strings.ToLower(strings.TrimSpace(*req.Email)); e != user.Email {
			email = e
		}
	}
	if err := s.checkUnique(id, username, email); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if username != "" {
		updates["username"] = username
	}
	if email != "" {
		updates["email"] = email
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetUserByID(id)
}

// DeleteUser removes the user with every post they wrote, the comments on
// those posts and every comment they wrote elsewhere.
func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}

	var images []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("author_id = ? AND image <> ''", id).
			Pluck("image", &images).Error; err != nil {
			return err
		}

		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("author_id = ? OR post_id IN (?)", id, ownPosts).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}

	for _, image := range images {
		s.media.Remove(image)
	}
	return nil
}

// checkUnique reports ErrConflict when username or email (if non-empty) is
// taken by a user other than exceptID.
func (s *UserService) checkUnique(exceptID uint, username, email string) error {
	if username != "" {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("username = ? AND id <> ?", username, exceptID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("username %q %w", username, ErrConflict)
		}
	}
	if email != "" {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, exceptID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("email %q %w", email, ErrConflict)
		}
	}
	return nil
}
