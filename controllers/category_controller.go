package controllers

import (
	"net/http"

	"blogicum/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService *services.CategoryService
	locationService *services.LocationService
	postService     *services.PostService
}

func NewCategoryController(categoryService *services.CategoryService, locationService *services.LocationService, postService *services.PostService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		locationService: locationService,
		postService:     postService,
	}
}

// @Summary List published categories
// @Tags categories
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /categories [get]
func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.categoryService.ListPublished()
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GetCategory lists the published posts of a published category.
// @Summary Category posts
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /categories/{slug} [get]
func (cc *CategoryController) GetCategory(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	category, posts, err := cc.postService.ListByCategory(c.Param("slug"), page)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"category": category,
			"posts":    posts.Posts,
		},
		"pagination": posts.Pagination,
	})
}

// @Summary List published locations
// @Tags locations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /locations [get]
func (cc *CategoryController) ListLocations(c *gin.Context) {
	locations, err := cc.locationService.ListPublished()
	if err != nil {
		respondError(c, err, "Failed to fetch locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": locations})
}
