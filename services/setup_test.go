package services

import (
	"testing"
	"time"

	"blogicum/config"
	"blogicum/database"
	"blogicum/models"

	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(&config.Config{
		DBDriver:   "sqlite",
		DBPath:     "file::memory:",
		DBLogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user, err := NewUserService(db, nil).CreateUser(&models.CreateUserRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) error = %v", username, err)
	}
	return user
}

func createCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()

	category, err := NewCategoryService(db).Create(&models.CreateCategoryRequest{
		Title:       "Category " + slug,
		Slug:        slug,
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("Create category %s error = %v", slug, err)
	}
	return category
}

type postOption func(*models.CreatePostRequest)

func unpublished() postOption {
	return func(r *models.CreatePostRequest) {
		f := false
		r.IsPublished = &f
	}
}

func publishedAt(at time.Time) postOption {
	return func(r *models.CreatePostRequest) { r.PubDate = &at }
}

func inCategory(c *models.Category) postOption {
	return func(r *models.CreatePostRequest) { r.CategoryID = &c.ID }
}

func createPost(t *testing.T, svc *PostService, author *models.User, title string, opts ...postOption) *models.Post {
	t.Helper()

	past := time.Now().Add(-time.Hour)
	req := &models.CreatePostRequest{Title: title, Text: "text of " + title, PubDate: &past}
	for _, opt := range opts {
		opt(req)
	}

	post, err := svc.Create(author.ID, req, nil)
	if err != nil {
		t.Fatalf("Create post %s error = %v", title, err)
	}
	return post
}

func postTitles(page *models.PostPage) []string {
	titles := make([]string, 0, len(page.Posts))
	for _, p := range page.Posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func containsTitle(page *models.PostPage, title string) bool {
	for _, p := range page.Posts {
		if p.Title == title {
			return true
		}
	}
	return false
}
