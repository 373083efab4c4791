package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"blogicum/models"
	"blogicum/services"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	postService    *services.PostService
	commentService *services.CommentService
}

func NewPostController(postService *services.PostService, commentService *services.CommentService) *PostController {
	return &PostController{
		postService:    postService,
		commentService: commentService,
	}
}

// ListPosts is the public index.
// @Summary List published posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} models.PostPage
// @Failure 404 {object} map[string]string
// @Router /posts [get]
func (pc *PostController) ListPosts(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	posts, err := pc.postService.ListPublished(page)
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts.Posts, "pagination": posts.Pagination})
}

// GetPost returns a post with its comments.
// @Summary Post detail
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostDetailResponse
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewerID := currentUserID(c)

	post, err := pc.postService.GetVisible(id, viewerID)
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}

	comments, err := pc.commentService.ListForPost(id, viewerID)
	if err != nil {
		respondError(c, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.PostDetailResponse{Post: post, Comments: comments}})
}

// CreatePost accepts JSON, or a multipart form with an optional "image" file.
// @Summary Create post
// @Tags posts
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param post body models.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := formImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.postService.Create(currentUserID(c), &req, image)
	if err != nil {
		respondError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// UpdatePost edits a post; only its author gets here.
// @Summary Update post
// @Tags posts
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Post ID"
// @Param post body models.UpdatePostRequest true "Changed fields"
// @Success 200 {object} models.Post
// @Success 302 "Caller is not the author"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [put]
func (pc *PostController) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := formImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.postService.Update(id, &req, image)
	if err != nil {
		respondError(c, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string
// @Success 302 "Caller is not the author"
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.postService.Delete(id); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// PostAuthor reports who wrote the post in :id.
func (pc *PostController) PostAuthor(c *gin.Context) (uint, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, services.ErrNotFound
	}
	post, err := pc.postService.GetByID(id)
	if err != nil {
		return 0, err
	}
	return post.AuthorID, nil
}

// formImage returns the uploaded "image" file of a multipart request, or nil.
func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return header, err
}
