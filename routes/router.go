package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/config"
	"github.com/cppla/webblog/controllers"
	"github.com/cppla/webblog/middleware"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(reg *state.Registry) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials need a concrete origin, so echo the caller's
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "browsers": reg.Len()})
	})

	authController := controllers.NewAuthController()
	homeController := controllers.NewHomeController()
	postController := controllers.NewPostController()
	composeController := controllers.NewComposeController()
	commentController := controllers.NewCommentController()
	confirmController := controllers.NewConfirmController()
	savedController := controllers.NewSavedController()
	profileController := controllers.NewProfileController()
	adminController := controllers.NewAdminController()
	flagsController := controllers.NewFlagsController()
	statsController := controllers.NewStatsController()
	configController := controllers.NewConfigController()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	ui := r.Group("/ui/v1")
	ui.Use(limiter.Middleware(), middleware.Browser(reg, middleware.BrowserOptions{
		CookieName: cfg.SessionCookieName,
		MaxAge:     365 * 24 * time.Hour,
	}))

	ui.GET("/config", configController.GetUI)

	authGroup := ui.Group("/auth")
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/logout", authController.Logout)
	authGroup.GET("/me", authController.Me)

	ui.GET("/home", homeController.Home)
	ui.PUT("/home/criteria", homeController.Criteria)
	ui.PUT("/home/page", homeController.Page)

	ui.GET("/posts/:id", postController.Detail)

	ui.POST("/confirm/:ticket", confirmController.Confirm)
	ui.DELETE("/confirm/:ticket", confirmController.Cancel)

	protected := ui.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/posts/:id/like", postController.Like)
	protected.POST("/posts/:id/save", postController.Save)
	protected.GET("/posts/:id/edit", postController.EditForm)
	protected.PUT("/posts/:id", postController.Update)
	protected.POST("/posts/:id/delete", postController.RequestDelete)
	protected.POST("/posts/:id/report", postController.Report)

	protected.POST("/posts/:id/comments", commentController.AddComment)
	protected.POST("/posts/:id/comments/:commentId/delete", commentController.RequestDeleteComment)
	protected.POST("/posts/:id/comments/:commentId/replies", commentController.AddReply)
	protected.POST("/posts/:id/comments/:commentId/replies/:replyId/delete", commentController.RequestDeleteReply)

	protected.GET("/compose", composeController.Form)
	protected.PUT("/compose/draft", composeController.Draft)
	protected.DELETE("/compose/draft", composeController.Discard)
	protected.POST("/compose", composeController.Create)

	protected.GET("/saved", savedController.List)
	protected.GET("/profile", profileController.Show)

	adminGroup := ui.Group("/admin")
	adminGroup.Use(middleware.AdminRequired())
	adminGroup.GET("/stats", statsController.Dashboard)
	adminGroup.GET("/users", adminController.Users)
	adminGroup.PUT("/users/:id/toggle-block", adminController.ToggleBlock)
	adminGroup.POST("/users/:id/delete", adminController.RequestDeleteUser)
	adminGroup.GET("/categories", adminController.Categories)
	adminGroup.POST("/categories", adminController.CreateCategory)
	adminGroup.PUT("/categories/:id", adminController.RenameCategory)
	adminGroup.POST("/categories/:id/delete", adminController.RequestDeleteCategory)
	adminGroup.GET("/reports", adminController.Reports)
	adminGroup.PUT("/reports/:id/status", adminController.ReportStatus)
	adminGroup.POST("/reports/:id/delete", adminController.RequestDeleteReport)
	adminGroup.GET("/flags", flagsController.List)
	adminGroup.PUT("/flags/users/:id", flagsController.User)
	adminGroup.PUT("/flags/posts/:id", flagsController.Post)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
