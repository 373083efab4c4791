package controllers

import (
	"log"
	"net/http"

	"blogicum/models"
	"blogicum/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
	postService *services.PostService
	blacklist   services.TokenBlacklist
}

func NewUserController(userService *services.UserService, postService *services.PostService, blacklist services.TokenBlacklist) *UserController {
	return &UserController{
		userService: userService,
		postService: postService,
		blacklist:   blacklist,
	}
}

// GetProfile shows a user with their posts. The owner also sees drafts and
// scheduled posts.
// @Summary User profile
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /profile/{username} [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	user, posts, err := uc.postService.ListByAuthor(c.Param("username"), currentUserID(c), page)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":         user,
			"display_name": user.DisplayName(),
			"posts":        posts.Posts,
		},
		"pagination": posts.Pagination,
	})
}

// UpdateProfile changes the caller's names, email or username.
// @Summary Update own profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param profile body models.UpdateProfileRequest true "Changed fields"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /profile [put]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.userService.UpdateProfile(currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// DeleteProfile removes the caller together with their posts and comments,
// and revokes the token used for the request.
// @Summary Delete own account
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /profile [delete]
func (uc *UserController) DeleteProfile(c *gin.Context) {
	if err := uc.userService.DeleteUser(currentUserID(c)); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	if err := revokeToken(c, uc.blacklist); err != nil {
		log.Printf("Failed to revoke token of deleted user %d: %v", currentUserID(c), err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
