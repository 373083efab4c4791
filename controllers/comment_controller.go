package controllers

import (
	"net/http"

	"blogicum/models"
	"blogicum/services"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	commentService *services.CommentService
	hubService     *services.HubService
}

func NewCommentController(commentService *services.CommentService, hubService *services.HubService) *CommentController {
	return &CommentController{
		commentService: commentService,
		hubService:     hubService,
	}
}

// CreateComment adds a comment and notifies the post's author over the
// websocket when somebody else wrote it.
// @Summary Comment on a post
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param comment body models.CommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 404 {object} map[string]string
// @Router /posts/{id}/comments [post]
func (cc *CommentController) CreateComment(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	comment, err := cc.commentService.Create(postID, userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}

	if cc.hubService != nil && comment.Post.AuthorID != userID {
		cc.hubService.BroadcastToUser(comment.Post.AuthorID, "comment_created", models.CommentNotification{
			PostID:    comment.PostID,
			PostTitle: comment.Post.Title,
			CommentID: comment.ID,
			Author:    comment.Author.Username,
			Text:      comment.Text,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// @Summary Update comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Param comment body models.CommentRequest true "Comment"
// @Success 200 {object} models.Comment
// @Success 302 "Caller is not the author"
// @Failure 404 {object} map[string]string
// @Router /posts/{id}/comments/{commentId} [put]
func (cc *CommentController) UpdateComment(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := cc.commentService.Update(postID, commentID, &req)
	if err != nil {
		respondError(c, err, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

// @Summary Delete comment
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} map[string]string
// @Success 302 "Caller is not the author"
// @Failure 404 {object} map[string]string
// @Router /posts/{id}/comments/{commentId} [delete]
func (cc *CommentController) DeleteComment(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	if err := cc.commentService.Delete(postID, commentID); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// CommentAuthor reports who wrote :commentId, which must belong to post :id.
func (cc *CommentController) CommentAuthor(c *gin.Context) (uint, error) {
	postID, ok := paramID(c, "id")
	if !ok {
		return 0, services.ErrNotFound
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return 0, services.ErrNotFound
	}
	comment, err := cc.commentService.GetForPost(postID, commentID)
	if err != nil {
		return 0, err
	}
	return comment.AuthorID, nil
}
