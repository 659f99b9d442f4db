package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"greendrake/storefront/internal/api/handlers"
	"greendrake/storefront/internal/api/middleware"
	"greendrake/storefront/internal/captcha"
	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/storage"
)

// SetupRouter configures and returns the main Gin engine. The notification
// queue client is injected; services are constructed here.
func SetupRouter(
	cfg *config.Config,
	db *mongo.Database,
	notifyQueue services.NotificationEnqueuer,
	imageQueue handlers.ImageTaskEnqueuer,
	storageService storage.IS3Storage,
) *gin.Engine {
	submissionService := services.NewSubmissionService(db, cfg, notifyQueue)
	catalogService := services.NewCatalogService(db, cfg)
	authService := services.NewAuthService(db, cfg)

	captchaVerifier := captcha.NewTurnstileVerifier(cfg)

	r := gin.Default()

	globalLimiter := middleware.NewRateLimiterMiddleware(
		rate.Limit(cfg.RateLimitRefillRate), cfg.RateLimitBucketSize)
	// The public submission endpoint gets a much tighter bucket.
	submitLimiter := middleware.NewRateLimiterMiddleware(
		rate.Limit(float64(cfg.RateLimitSubmitRefillPerMin)/60.0),
		cfg.RateLimitSubmitBucketSize)

	r.Use(middleware.CORSMiddleware(cfg.CorsOrigin))
	r.Use(globalLimiter.Limit())

	submissionHandler := handlers.NewRestSubmissionHandler(submissionService)
	catalogHandler := handlers.NewRestCatalogHandler(catalogService)
	adminAuthHandler := handlers.NewRestAdminAuthHandler(cfg, authService)
	adminSubmissionHandler := handlers.NewRestAdminSubmissionHandler(submissionService)
	adminCatalogHandler := handlers.NewRestAdminCatalogHandler(catalogService, storageService, imageQueue)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	v1 := r.Group("/v1")
	{
		// Public routes
		v1.GET("/catalog", catalogHandler.ListCatalog)
		v1.GET("/catalog/:id", catalogHandler.GetCatalogItem)
		v1.POST("/submission",
			submitLimiter.Limit(),
			middleware.CaptchaMiddleware(captchaVerifier),
			submissionHandler.CreateSubmission)

		v1.POST("/admin/login", adminAuthHandler.Login)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(cfg.JwtSecret))
		{
			admin.GET("/submissions", adminSubmissionHandler.ListSubmissions)
			admin.GET("/submissions/export", adminSubmissionHandler.ExportSubmissions)
			admin.GET("/submissions/:id", adminSubmissionHandler.GetSubmission)
			admin.PUT("/submissions/:id/status", adminSubmissionHandler.UpdateOrderStatus)

			admin.GET("/catalog", adminCatalogHandler.ListAllItems)
			admin.POST("/catalog", adminCatalogHandler.CreateItem)
			admin.PUT("/catalog/:id", adminCatalogHandler.UpdateItem)
			admin.DELETE("/catalog/:id", adminCatalogHandler.DeleteItem)
			admin.POST("/catalog/:id/images", adminCatalogHandler.UploadImage)
			admin.POST("/catalog/:id/images/presign", adminCatalogHandler.PresignImageUpload)
			admin.POST("/catalog/:id/images/confirm", adminCatalogHandler.ConfirmImageUpload)
		}
	}

	return r
}
