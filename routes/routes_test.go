package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogicum/config"
	"blogicum/database"
	"blogicum/models"
	"blogicum/services"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *services.HubService
}

type apiResponse struct {
	Data       json.RawMessage   `json:"data"`
	Token      string            `json:"token"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Pagination models.Pagination `json:"pagination"`
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBDriver:       "sqlite",
		DBPath:         "file::memory:",
		DBLogLevel:     "silent",
		PostsOnPage:    10,
		MediaRoot:      t.TempDir(),
		MediaURL:       "/media",
		MaxUploadSize:  1 << 20,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(cfg)
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

	hub := services.NewHubService()
	return &testApp{
		router: NewRouter(db, cfg, hub, services.NewMemoryTokenBlacklist()),
		db:     db,
		hub:    hub,
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(decode(t, w).Data, dest); err != nil {
		t.Fatalf("invalid data in %q: %v", w.Body.String(), err)
	}
}

func (a *testApp) register(t *testing.T, username string) (string, models.User) {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "password123",
		"password_confirm": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", username, w.Code, w.Body.String())
	}

	resp := decode(t, w)
	var user models.User
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		t.Fatalf("invalid user: %v", err)
	}
	return resp.Token, user
}

func (a *testApp) createPost(t *testing.T, token string, body gin.H) models.Post {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/posts", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: status = %d, body = %s", w.Code, w.Body.String())
	}
	var post models.Post
	decodeData(t, w, &post)
	return post
}

func postPath(id uint) string {
	return fmt.Sprintf("/api/v1/posts/%d", id)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := app.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	app.register(t, "alice")

	w := app.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":         "alice",
		"email":            "other@example.com",
		"password":         "password123",
		"password_confirm": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want %d", w.Code, http.StatusConflict)
	}

	w = app.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":         "bob",
		"email":            "bob@example.com",
		"password":         "password123",
		"password_confirm": "different1",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("mismatched password status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = app.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"login": "alice", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = app.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"login": "alice@example.com", "password": "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	token := decode(t, w).Token

	w = app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, want %d", w.Code, http.StatusOK)
	}
	var me models.User
	decodeData(t, w, &me)
	if me.Username != "alice" {
		t.Errorf("me = %q, want alice", me.Username)
	}

	if w := app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if w := app.do(t, http.MethodGet, "/api/v1/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me without token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRegisterRejectsUnroutableUsername(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	for _, username := range []string{"a/b", "two words", "what?"} {
		w := app.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username":         username,
			"email":            "someone@example.com",
			"password":         "password123",
			"password_confirm": "password123",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("register %q status = %d, want %d", username, w.Code, http.StatusBadRequest)
		}
	}

	token, _ := app.register(t, "first.last")
	if w := app.do(t, http.MethodGet, "/api/v1/profile/first.last", "", nil); w.Code != http.StatusOK {
		t.Errorf("profile of first.last status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"username": "first/last"}); w.Code != http.StatusBadRequest {
		t.Errorf("rename to first/last status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUnpublishedPostVisibility(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	authorToken, _ := app.register(t, "author")
	readerToken, _ := app.register(t, "reader")

	draft := app.createPost(t, authorToken, gin.H{"title": "draft", "text": "x", "is_published": false})
	app.createPost(t, authorToken, gin.H{"title": "public", "text": "x"})

	w := app.do(t, http.MethodGet, "/api/v1/posts", "", nil)
	var posts []models.Post
	decodeData(t, w, &posts)
	if len(posts) != 1 || posts[0].Title != "public" {
		t.Errorf("index = %v, want only the public post", posts)
	}

	if w := app.do(t, http.MethodGet, postPath(draft.ID), "", nil); w.Code != http.StatusNotFound {
		t.Errorf("anonymous draft status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := app.do(t, http.MethodGet, postPath(draft.ID), readerToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("reader draft status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := app.do(t, http.MethodGet, postPath(draft.ID), authorToken, nil); w.Code != http.StatusOK {
		t.Errorf("author draft status = %d, want %d", w.Code, http.StatusOK)
	}

	var profile struct {
		Posts []models.Post `json:"posts"`
	}
	decodeData(t, app.do(t, http.MethodGet, "/api/v1/profile/author", authorToken, nil), &profile)
	if len(profile.Posts) != 2 {
		t.Errorf("own profile shows %d posts, want 2", len(profile.Posts))
	}
	decodeData(t, app.do(t, http.MethodGet, "/api/v1/profile/author", readerToken, nil), &profile)
	if len(profile.Posts) != 1 {
		t.Errorf("foreign profile shows %d posts, want 1", len(profile.Posts))
	}

	if w := app.do(t, http.MethodGet, "/api/v1/profile/nobody", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown profile status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestFuturePostHidden(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	token, _ := app.register(t, "author")

	future := app.createPost(t, token, gin.H{
		"title":    "tomorrow",
		"text":     "x",
		"pub_date": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	})

	var posts []models.Post
	decodeData(t, app.do(t, http.MethodGet, "/api/v1/posts", "", nil), &posts)
	if len(posts) != 0 {
		t.Errorf("index = %v, want no posts", posts)
	}
	if w := app.do(t, http.MethodGet, postPath(future.ID), "", nil); w.Code != http.StatusNotFound {
		t.Errorf("future post status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestNonAuthorIsRedirected(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	authorToken, _ := app.register(t, "author")
	otherToken, _ := app.register(t, "other")
	post := app.createPost(t, authorToken, gin.H{"title": "mine", "text": "original"})

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		w := app.do(t, method, postPath(post.ID), otherToken, gin.H{"text": "hijacked"})
		if w.Code != http.StatusFound {
			t.Errorf("%s by non-author status = %d, want %d", method, w.Code, http.StatusFound)
		}
		if loc := w.Header().Get("Location"); loc != postPath(post.ID) {
			t.Errorf("%s Location = %q, want %q", method, loc, postPath(post.ID))
		}
	}

	w := app.do(t, http.MethodGet, postPath(post.ID), "", nil)
	var detail models.PostDetailResponse
	decodeData(t, w, &detail)
	if detail.Post == nil || detail.Post.Text != "original" {
		t.Errorf("post changed by non-author: %s", w.Body.String())
	}

	if w := app.do(t, http.MethodPut, postPath(post.ID), "", gin.H{"text": "x"}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous edit status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if w := app.do(t, http.MethodPut, postPath(9999), otherToken, gin.H{"text": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("edit of missing post status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := app.do(t, http.MethodDelete, "/api/v1/posts/abc", otherToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("delete of malformed id status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAuthorEditsAndDeletes(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	token, _ := app.register(t, "author")
	post := app.createPost(t, token, gin.H{"title": "mine", "text": "original"})

	w := app.do(t, http.MethodPut, postPath(post.ID), token, gin.H{"text": "edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated models.Post
	decodeData(t, w, &updated)
	if updated.Text != "edited" || updated.Title != "mine" {
		t.Errorf("updated = %q/%q, want mine/edited", updated.Title, updated.Text)
	}

	w = app.do(t, http.MethodPost, postPath(post.ID)+"/comments", token, gin.H{"text": "first"})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment status = %d, body = %s", w.Code, w.Body.String())
	}

	if w := app.do(t, http.MethodDelete, postPath(post.ID), token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := app.do(t, http.MethodGet, postPath(post.ID), token, nil); w.Code != http.StatusNotFound {
		t.Errorf("deleted post status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var comments int64
	app.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	if comments != 0 {
		t.Errorf("comments left after post delete = %d, want 0", comments)
	}
}

func TestComments(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	authorToken, author := app.register(t, "author")
	readerToken, _ := app.register(t, "reader")
	post := app.createPost(t, authorToken, gin.H{"title": "p", "text": "x"})
	other := app.createPost(t, authorToken, gin.H{"title": "q", "text": "y"})

	notifications := models.NewClient(app.hub.GetHub(), nil, author.ID)
	app.hub.GetHub().Register <- notifications

	if w := app.do(t, http.MethodPost, postPath(9999)+"/comments", readerToken, gin.H{"text": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("comment on missing post status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := app.do(t, http.MethodPost, postPath(post.ID)+"/comments", readerToken, gin.H{"text": ""}); w.Code != http.StatusBadRequest {
		t.Errorf("empty comment status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w := app.do(t, http.MethodPost, postPath(post.ID)+"/comments", readerToken, gin.H{"text": "nice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment status = %d, body = %s", w.Code, w.Body.String())
	}
	var comment models.Comment
	decodeData(t, w, &comment)

	select {
	case payload := <-notifications.Send:
		var msg models.WSMessage
		if err := json.Unmarshal(payload, &msg); err != nil || msg.Type != "comment_created" {
			t.Errorf("notification = %s, want a comment_created message", payload)
		}
	case <-time.After(time.Second):
		t.Error("post author was not notified about the comment")
	}

	commentPath := fmt.Sprintf("%s/comments/%d", postPath(post.ID), comment.ID)

	w = app.do(t, http.MethodPut, commentPath, authorToken, gin.H{"text": "edited by post author"})
	if w.Code != http.StatusFound || w.Header().Get("Location") != postPath(post.ID) {
		t.Errorf("non-author comment edit = %d %q, want 302 to the post", w.Code, w.Header().Get("Location"))
	}
	w = app.do(t, http.MethodDelete, commentPath, authorToken, nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != postPath(post.ID) {
		t.Errorf("non-author comment delete = %d %q, want 302 to the post", w.Code, w.Header().Get("Location"))
	}
	var kept int64
	app.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&kept)
	if kept != 1 {
		t.Errorf("comment rows after non-author delete = %d, want 1", kept)
	}

	wrongPost := fmt.Sprintf("%s/comments/%d", postPath(other.ID), comment.ID)
	if w := app.do(t, http.MethodPut, wrongPost, readerToken, gin.H{"text": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("comment under the wrong post status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = app.do(t, http.MethodPut, commentPath, readerToken, gin.H{"text": "edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("comment edit status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail models.PostDetailResponse
	decodeData(t, app.do(t, http.MethodGet, postPath(post.ID), "", nil), &detail)
	if len(detail.Comments) != 1 || detail.Comments[0].Text != "edited" {
		t.Errorf("comments = %+v, want the edited comment", detail.Comments)
	}
	if detail.Post.CommentCount != 1 {
		t.Errorf("CommentCount = %d, want 1", detail.Post.CommentCount)
	}

	if w := app.do(t, http.MethodDelete, commentPath, readerToken, nil); w.Code != http.StatusOK {
		t.Errorf("comment delete status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := app.do(t, http.MethodDelete, commentPath, readerToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("second comment delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCategories(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	token, _ := app.register(t, "author")

	categories := services.NewCategoryService(app.db)
	hidden := false
	travel, err := categories.Create(&models.CreateCategoryRequest{Title: "Travel", Slug: "travel"})
	if err != nil {
		t.Fatalf("Create category error = %v", err)
	}
	secret, err := categories.Create(&models.CreateCategoryRequest{Title: "Secret", Slug: "secret", IsPublished: &hidden})
	if err != nil {
		t.Fatalf("Create category error = %v", err)
	}

	app.createPost(t, token, gin.H{"title": "trip", "text": "x", "category_id": travel.ID})
	hiddenPost := app.createPost(t, token, gin.H{"title": "classified", "text": "x", "category_id": secret.ID})

	var list []models.Category
	decodeData(t, app.do(t, http.MethodGet, "/api/v1/categories", "", nil), &list)
	if len(list) != 1 || list[0].Slug != "travel" {
		t.Errorf("categories = %v, want only travel", list)
	}

	var page struct {
		Category models.Category `json:"category"`
		Posts    []models.Post   `json:"posts"`
	}
	decodeData(t, app.do(t, http.MethodGet, "/api/v1/categories/travel", "", nil), &page)
	if len(page.Posts) != 1 || page.Posts[0].Title != "trip" {
		t.Errorf("category posts = %v, want [trip]", page.Posts)
	}

	if w := app.do(t, http.MethodGet, "/api/v1/categories/secret", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unpublished category status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := app.do(t, http.MethodGet, postPath(hiddenPost.ID), "", nil); w.Code != http.StatusNotFound {
		t.Errorf("post in hidden category status = %d, want %d", w.Code, http.StatusNotFound)
	}

	if w := app.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{"title": "t", "text": "x", "category_id": 9999}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	if err := categories.Delete("secret"); err != nil {
		t.Fatalf("Delete category error = %v", err)
	}
	w := app.do(t, http.MethodGet, postPath(hiddenPost.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("post after its category was deleted: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestPagination(t *testing.T) {
	cfg := testConfig(t)
	cfg.PostsOnPage = 2
	app := newTestApp(t, cfg)
	token, _ := app.register(t, "author")

	for i := 0; i < 3; i++ {
		app.createPost(t, token, gin.H{"title": fmt.Sprintf("post %d", i), "text": "x"})
	}

	w := app.do(t, http.MethodGet, "/api/v1/posts?page=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("page 2 status = %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Pagination.TotalPages != 2 || resp.Pagination.Page != 2 || resp.Pagination.HasNext {
		t.Errorf("pagination = %+v, want last of two pages", resp.Pagination)
	}

	for _, page := range []string{"0", "3", "abc"} {
		if w := app.do(t, http.MethodGet, "/api/v1/posts?page="+page, "", nil); w.Code != http.StatusNotFound {
			t.Errorf("page=%s status = %d, want %d", page, w.Code, http.StatusNotFound)
		}
	}
}

func TestCreatePostWithImage(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)
	token, _ := app.register(t, "author")

	png := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("title", "with picture")
	writer.WriteField("text", "look")
	part, err := writer.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write(png)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var post models.Post
	decodeData(t, w, &post)
	if post.Image == "" {
		t.Fatal("Image is empty")
	}

	if w := app.do(t, http.MethodGet, cfg.MediaURL+"/"+post.Image, "", nil); w.Code != http.StatusOK {
		t.Errorf("media status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestDeleteProfile(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	aliceToken, _ := app.register(t, "alice")
	bobToken, _ := app.register(t, "bob")

	alicePost := app.createPost(t, aliceToken, gin.H{"title": "alice", "text": "x"})
	bobPost := app.createPost(t, bobToken, gin.H{"title": "bob", "text": "x"})
	app.do(t, http.MethodPost, postPath(bobPost.ID)+"/comments", aliceToken, gin.H{"text": "hi bob"})

	if w := app.do(t, http.MethodDelete, "/api/v1/profile", aliceToken, nil); w.Code != http.StatusOK {
		t.Fatalf("delete profile status = %d, body = %s", w.Code, w.Body.String())
	}

	if w := app.do(t, http.MethodGet, postPath(alicePost.ID), "", nil); w.Code != http.StatusNotFound {
		t.Errorf("post of deleted user status = %d, want %d", w.Code, http.StatusNotFound)
	}
	var detail models.PostDetailResponse
	decodeData(t, app.do(t, http.MethodGet, postPath(bobPost.ID), "", nil), &detail)
	if len(detail.Comments) != 0 {
		t.Errorf("comments of deleted user still listed: %+v", detail.Comments)
	}
	if w := app.do(t, http.MethodGet, "/api/v1/auth/me", aliceToken, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me of deleted user status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if w := app.do(t, http.MethodPost, "/api/v1/posts", aliceToken, gin.H{"title": "ghost", "text": "x"}); w.Code != http.StatusUnauthorized {
		t.Errorf("post with deleted user's token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestTokenOfDeletedUserIsRejected(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	aliceToken, alice := app.register(t, "alice")
	bobToken, _ := app.register(t, "bob")
	bobPost := app.createPost(t, bobToken, gin.H{"title": "bob", "text": "x"})

	// A second token that DeleteProfile never saw, so only the account lookup can stop it.
	spare, err := utils.GenerateJWT(alice.ID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if w := app.do(t, http.MethodDelete, "/api/v1/profile", aliceToken, nil); w.Code != http.StatusOK {
		t.Fatalf("delete profile status = %d, body = %s", w.Code, w.Body.String())
	}

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/v1/auth/me", nil},
		{http.MethodPost, "/api/v1/posts", gin.H{"title": "ghost", "text": "x"}},
		{http.MethodPost, postPath(bobPost.ID) + "/comments", gin.H{"text": "ghost"}},
		{http.MethodPut, "/api/v1/profile", gin.H{"first_name": "Ghost"}},
	}
	for _, req := range requests {
		if w := app.do(t, req.method, req.path, spare, req.body); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want %d", req.method, req.path, w.Code, http.StatusUnauthorized)
		}
	}

	if w := app.do(t, http.MethodGet, "/api/v1/posts", spare, nil); w.Code != http.StatusOK {
		t.Errorf("public index with deleted user's token status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	token, _ := app.register(t, "alice")
	app.register(t, "bob")

	w := app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"first_name": "Alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var user models.User
	decodeData(t, w, &user)
	if user.FirstName != "Alice" {
		t.Errorf("FirstName = %q, want Alice", user.FirstName)
	}

	if w := app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"username": "bob"}); w.Code != http.StatusConflict {
		t.Errorf("taken username status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuthRateLimit = 2
	app := newTestApp(t, cfg)

	credentials := gin.H{"login": "ghost", "password": "password123"}
	for i := 0; i < 2; i++ {
		if w := app.do(t, http.MethodPost, "/api/v1/auth/login", "", credentials); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want %d", i+1, w.Code, http.StatusUnauthorized)
		}
	}

	w := app.do(t, http.MethodPost, "/api/v1/auth/login", "", credentials)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want %q", w.Header().Get("Retry-After"), "60")
	}
}
