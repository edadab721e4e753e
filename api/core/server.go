package core

import (
	"net/http"
	"time"

	"github.com/anoixa/tryon-server/api/common"
	authhandler "github.com/anoixa/tryon-server/api/handler/auth"
	"github.com/anoixa/tryon-server/api/handler/files"
	"github.com/anoixa/tryon-server/api/handler/garments"
	"github.com/anoixa/tryon-server/api/handler/models3d"
	"github.com/anoixa/tryon-server/api/handler/scans"
	"github.com/anoixa/tryon-server/api/middleware"
	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/config"
	"github.com/anoixa/tryon-server/internal/asset"
	"github.com/anoixa/tryon-server/internal/auth"
	"github.com/anoixa/tryon-server/internal/repositories"
	"github.com/anoixa/tryon-server/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项，由容器显式装配后注入
type ServerDependencies struct {
	Config         *config.Config
	StorageFactory *storage.Factory
	CacheProvider  types.Cache
	Repositories   *repositories.Repositories
	JWTService     *auth.JWTService
	LoginService   *auth.LoginService
	AssetServices  *asset.Services
}

// setupRouter 装配路由
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := deps.Config
	router := gin.New()

	// 仅在开发版本时启用 gin 日志
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	_ = router.SetTrustedProxies(nil)

	// 上传走 multipart 流式解析，超出部分落盘
	router.MaxMultipartMemory = 32 << 20

	// 全局并发限制，避免大文件上传耗尽内存
	concurrencyLimiter := middleware.NewConcurrencyLimiter(256)
	router.Use(concurrencyLimiter.Middleware())

	// 基础监控指标
	router.Use(middleware.Metrics())

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	fileRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitFileRPS, cfg.RateLimitFileBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
		fileRateLimiter.StopCleanup()
	}

	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.Repositories),
				"cache":    checkCacheHealth(deps.CacheProvider),
				"storage":  checkStorageHealth(deps.StorageFactory),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	})
	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
	router.GET("/metrics", func(context *gin.Context) {
		context.JSON(http.StatusOK, middleware.GetMetrics())
	})

	// 创建处理器（依赖注入）
	authHandler := authhandler.NewHandler(deps.LoginService)
	fileHandler := files.NewHandler(deps.StorageFactory)
	garmentHandler := garments.NewHandler(deps.AssetServices.Garments)
	scanHandler := scans.NewHandler(deps.AssetServices.Scans)
	modelHandler := models3d.NewHandler(deps.AssetServices.Models3D)

	// 本地存储对象回源
	filesGroup := router.Group("/files")
	filesGroup.Use(fileRateLimiter.Middleware())
	{
		filesGroup.GET("/:key", fileHandler.Get) // GET /files/{key}
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // 所有API禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(authRateLimiter.Middleware())
		{
			authGroup.POST("/register", authHandler.RegisterHandlerFunc) // POST /api/auth/register
			authGroup.POST("/login", authHandler.LoginHandlerFunc)       // POST /api/auth/login
			authGroup.POST("/refresh", authHandler.RefreshTokenHandlerFunc)
			authGroup.POST("/logout", authHandler.LogoutHandlerFunc)
			authGroup.GET("/verify", middleware.JWTAuth(deps.JWTService), authHandler.VerifyHandlerFunc)
		}

		v1 := apiGroup.Group("/v1")
		v1.Use(apiRateLimiter.Middleware())
		v1.Use(middleware.JWTAuth(deps.JWTService))
		{
			garmentsGroup := v1.Group("/garments")
			{
				garmentsGroup.POST("", garmentHandler.Upload)              // POST /api/v1/garments
				garmentsGroup.GET("", garmentHandler.List)                 // GET /api/v1/garments
				garmentsGroup.GET("/latest", garmentHandler.GetLatest)     // GET /api/v1/garments/latest
				garmentsGroup.DELETE("/latest", garmentHandler.DeleteLatest)
				garmentsGroup.GET("/:garmentId", garmentHandler.Get)       // GET /api/v1/garments/{garmentId}
				garmentsGroup.DELETE("/:garmentId", garmentHandler.Delete) // DELETE /api/v1/garments/{garmentId}
			}

			scansGroup := v1.Group("/scans")
			{
				scansGroup.POST("", scanHandler.Upload)               // POST /api/v1/scans
				scansGroup.GET("", scanHandler.GetLatest)             // GET /api/v1/scans
				scansGroup.DELETE("", scanHandler.DeleteLatest)       // DELETE /api/v1/scans
				scansGroup.GET("/:garmentId", scanHandler.Get)        // GET /api/v1/scans/{garmentId}
				scansGroup.DELETE("/:garmentId", scanHandler.Delete)  // DELETE /api/v1/scans/{garmentId}
			}

			modelsGroup := v1.Group("/3d-models")
			{
				modelsGroup.POST("", modelHandler.Upload)              // POST /api/v1/3d-models
				modelsGroup.GET("", modelHandler.GetLatest)            // GET /api/v1/3d-models
				modelsGroup.DELETE("", modelHandler.DeleteLatest)      // DELETE /api/v1/3d-models
				modelsGroup.GET("/:garmentId", modelHandler.Get)       // GET /api/v1/3d-models/{garmentId}
				modelsGroup.DELETE("/:garmentId", modelHandler.Delete) // DELETE /api/v1/3d-models/{garmentId}
			}
		}
	}

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := deps.Config
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
