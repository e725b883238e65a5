package routes

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GenVas/yatube/config"
	"github.com/GenVas/yatube/controllers"
	"github.com/GenVas/yatube/middleware"
	"github.com/GenVas/yatube/storage"
	"github.com/GenVas/yatube/utils"
)

// SetupRouter wires routes, middlewares, templates and controllers.
func SetupRouter(store storage.Storage) *gin.Engine {
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.CurrentUser())
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(store))

	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	})
	r.LoadHTMLGlob(cfg.TemplatesGlob)
	r.Static("/static", cfg.StaticDir)

	postController := controllers.NewPostController(store)
	authController := controllers.NewAuthController(store)

	indexCacheTTL := time.Duration(cfg.IndexCacheTTLSeconds) * time.Second
	r.GET("/", middleware.CachePage(indexCacheTTL), postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)

	r.GET("/404/", func(ctx *gin.Context) {
		ctx.HTML(http.StatusNotFound, "404.html", gin.H{"Path": ctx.Request.URL.Path})
	})
	r.GET("/500/", func(ctx *gin.Context) {
		ctx.HTML(http.StatusInternalServerError, "500.html", gin.H{})
	})

	r.GET("/new/", middleware.LoginRequired(), postController.NewPostPage)
	r.POST("/new/", middleware.LoginRequired(), postController.NewPost)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.GET("/signup/", authController.SignupPage)
	authGroup.POST("/signup/", authController.Signup)
	authGroup.GET("/login/", authController.LoginPage)
	authGroup.POST("/login/", authController.Login)
	authGroup.POST("/logout/", middleware.LoginRequired(), authController.Logout)

	r.GET("/:username/", postController.Profile)
	r.GET("/:username/:post_id/", postController.PostView)
	r.GET("/:username/:post_id/edit/", middleware.LoginRequired(), postController.EditPostPage)
	r.POST("/:username/:post_id/edit/", middleware.LoginRequired(), postController.EditPost)
	r.POST("/:username/:post_id/comment/", middleware.LoginRequired(), postController.AddComment)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.HTML(http.StatusNotFound, "404.html", gin.H{"Path": ctx.Request.URL.Path})
	})

	return r
}
