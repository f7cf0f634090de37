package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/discussions/config"
	"github.com/cppla/discussions/controllers"
	"github.com/cppla/discussions/middleware"
	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, discussions *services.DiscussionService, posts *services.PostService) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and recovery go to their own rolling file
	gl := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, false))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// wildcard origins cannot be combined with credentials
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	Mount(r.Group("/api/v1"), cfg, discussions, posts)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}

// Mount registers the discussion routes on an existing group so a host
// application can embed them next to its own.
func Mount(api *gin.RouterGroup, cfg config.AppConfig, discussions *services.DiscussionService, posts *services.PostService) {
	discussionController := controllers.NewDiscussionController(discussions)
	postController := controllers.NewPostController(discussions, posts)
	statsController := controllers.NewStatsController(discussions)
	configController := controllers.NewConfigController(discussions.Settings())

	auth := middleware.AuthRequired(cfg.JWTSecret)
	limit := middleware.RateLimitMiddleware(cfg.RateLimitPerMinute)

	list := api.Group("/" + strings.Trim(cfg.RoutePrefix, "/"))
	list.GET("", discussionController.ListDiscussions)
	list.GET("/category/:category", discussionController.ListByCategory)
	list.GET("/categories", configController.GetCategories)
	list.GET("/config", configController.GetConfig)
	list.GET("/stats", statsController.GetStats)
	list.POST("", auth, limit, discussionController.CreateDiscussion)

	one := api.Group("/" + strings.Trim(cfg.RoutePrefixPost, "/"))
	one.GET("/:slug", middleware.OptionalAuth(cfg.JWTSecret), discussionController.GetDiscussion)
	one.GET("/:slug/posts", postController.ListPosts)

	protected := one.Group("")
	protected.Use(auth, limit)
	protected.PUT("/:slug", discussionController.UpdateDiscussion)
	protected.PATCH("/:slug/category", discussionController.SetCategory)
	protected.DELETE("/:slug", discussionController.DeleteDiscussion)
	protected.POST("/:slug/subscription", discussionController.ToggleSubscription)
	protected.POST("/:slug/posts", postController.CreatePost)

	postsGroup := api.Group("/posts")
	postsGroup.Use(auth, limit)
	postsGroup.PUT("/:id", postController.UpdatePost)
	postsGroup.DELETE("/:id", postController.DeletePost)
}
