package routes

import (
	"log"
	"net/http"

	"blogicum/config"
	"blogicum/controllers"
	"blogicum/handlers"
	"blogicum/middleware"
	"blogicum/models"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "blogicum/docs"
)

const apiPrefix = "/api/v1"

// Controllers bundles everything SetupRoutes mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Post     *controllers.PostController
	Comment  *controllers.CommentController
	Category *controllers.CategoryController
	WS       *handlers.WebSocketHandler
}

// NewRouter wires services, controllers and middleware into a ready engine.
func NewRouter(db *gorm.DB, cfg *config.Config, hubService *services.HubService, blacklist services.TokenBlacklist) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := models.RegisterValidators(v); err != nil {
			log.Printf("Failed to register validators: %v", err)
		}
	}

	media := services.NewMediaService(cfg.MediaRoot, cfg.MaxUploadSize)
	userService := services.NewUserService(db, media)
	postService := services.NewPostService(db, media, cfg.PostsOnPage)
	commentService := services.NewCommentService(db)
	categoryService := services.NewCategoryService(db)
	locationService := services.NewLocationService(db)

	r := gin.New()

	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	SetupRoutes(r, Controllers{
		Auth:     controllers.NewAuthController(userService, blacklist),
		User:     controllers.NewUserController(userService, postService, blacklist),
		Post:     controllers.NewPostController(postService, commentService),
		Comment:  controllers.NewCommentController(commentService, hubService),
		Category: controllers.NewCategoryController(categoryService, locationService, postService),
		WS:       handlers.NewWebSocketHandler(hubService, cfg.CORSOrigins),
	}, blacklist, userService, middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow))

	r.Static(cfg.MediaURL, cfg.MediaRoot)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func SetupRoutes(r *gin.Engine, ctrl Controllers, blacklist services.TokenBlacklist, accounts middleware.Accounts, limiter *middleware.RateLimiter) {
	authRequired := middleware.AuthRequired(blacklist, accounts)
	optionalAuth := middleware.OptionalAuth(blacklist, accounts)
	toPost := func(c *gin.Context) string {
		return apiPrefix + "/posts/" + c.Param("id")
	}

	api := r.Group(apiPrefix)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Middleware(), ctrl.Auth.Register)
			auth.POST("/login", limiter.Middleware(), ctrl.Auth.Login)
			auth.POST("/logout", authRequired, ctrl.Auth.Logout)
			auth.GET("/me", authRequired, ctrl.Auth.Me)
			auth.GET("/ws", authRequired, ctrl.WS.HandleWebSocket)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", optionalAuth, ctrl.Post.ListPosts)
			posts.POST("", authRequired, ctrl.Post.CreatePost)
			posts.GET("/:id", optionalAuth, ctrl.Post.GetPost)

			onlyPostAuthor := middleware.OnlyAuthor(ctrl.Post.PostAuthor, toPost)
			posts.PUT("/:id", authRequired, onlyPostAuthor, ctrl.Post.UpdatePost)
			posts.DELETE("/:id", authRequired, onlyPostAuthor, ctrl.Post.DeletePost)

			onlyCommentAuthor := middleware.OnlyAuthor(ctrl.Comment.CommentAuthor, toPost)
			posts.POST("/:id/comments", authRequired, ctrl.Comment.CreateComment)
			posts.PUT("/:id/comments/:commentId", authRequired, onlyCommentAuthor, ctrl.Comment.UpdateComment)
			posts.DELETE("/:id/comments/:commentId", authRequired, onlyCommentAuthor, ctrl.Comment.DeleteComment)
		}

		api.GET("/categories", ctrl.Category.ListCategories)
		api.GET("/categories/:slug", ctrl.Category.GetCategory)
		api.GET("/locations", ctrl.Category.ListLocations)

		profile := api.Group("/profile")
		{
			profile.GET("/:username", optionalAuth, ctrl.User.GetProfile)
			profile.PUT("", authRequired, ctrl.User.UpdateProfile)
			profile.DELETE("", authRequired, ctrl.User.DeleteProfile)
		}
	}
}
