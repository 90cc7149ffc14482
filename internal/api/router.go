package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/api/handlers"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/api/middleware"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, taskClient handlers.IAsynqClient, storageService storage.IS3Storage) *gin.Engine {
	// Initialize services needed by API handlers here
	userService := services.NewUserService(db)
	catalogService := services.NewCatalogService(db, cfg)
	resolver := services.NewResourceResolver(catalogService)
	inquiryService := services.NewInquiryService(db, cfg)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Global middleware first (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, userService)
	inquiryHandler := handlers.NewRestInquiryHandler(cfg, inquiryService, resolver, taskClient)
	catalogHandler := handlers.NewRestCatalogHandler(catalogService, storageService, taskClient)

	// URL segment per catalog kind.
	catalogKinds := map[string]models.ResourceKind{
		"vehicles": models.KindVehicle,
		"guides":   models.KindTourGuide,
		"drivers":  models.KindDriver,
		"places":   models.KindPlace,
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		v1.POST("/auth/login", authHandler.Login)

		// Submission is public; a valid token attributes the inquiry to the
		// caller, a bad or missing one falls through to anonymous.
		v1.POST("/inquiries", middleware.OptionalAuthMiddleware(cfg.JwtSecret), inquiryHandler.CreateInquiry)

		// Catalog reads are public so the storefront can build trips.
		for segment, kind := range catalogKinds {
			v1.GET("/"+segment, catalogHandler.ListResources(kind))
			v1.GET("/"+segment+"/:id", catalogHandler.GetResource(kind))
		}

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.GET("/inquiries", inquiryHandler.ListInquiries)
			authRequired.GET("/inquiries/:id", inquiryHandler.GetInquiry)
			authRequired.DELETE("/inquiries/:id", inquiryHandler.DeleteInquiry)
		}

		// Admin routes
		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
		{
			adminRequired.PUT("/inquiries/:id/status", inquiryHandler.UpdateInquiryStatus)
			adminRequired.PUT("/inquiries/:id/quote", inquiryHandler.AddInquiryQuote)

			for segment, kind := range catalogKinds {
				adminRequired.POST("/"+segment, catalogHandler.CreateResource(kind))
				adminRequired.PUT("/"+segment+"/:id", catalogHandler.UpdateResource(kind))
				adminRequired.DELETE("/"+segment+"/:id", catalogHandler.DeleteResource(kind))
				adminRequired.POST("/"+segment+"/:id/photos/presign", catalogHandler.PresignPhoto(kind))
				adminRequired.POST("/"+segment+"/:id/photos", catalogHandler.ConfirmPhoto(kind))
			}
		}
	}

	return r
}
