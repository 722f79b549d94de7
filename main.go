package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/controllers"
	"github.com/glowbook/glowbook-api/middleware"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/services"
	"github.com/glowbook/glowbook-api/utils"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	config.SetConfig(cfg)

	utils.InitializeLogger(cfg.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Starting GlowBook API server", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrateDatabase(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed")

	services.InitChangeHub(cfg.RedisAddr)

	s3Service, err := services.InitS3Service()
	if err != nil {
		logger.Warn("S3 unavailable, portfolio uploads disabled", zap.Error(err))
	} else {
		services.InitImageService(s3Service)
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	logger.Info("Server is running", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// migrateDatabase runs gorm auto-migration for all models
func migrateDatabase() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.AvailabilityWindow{},
		&models.Booking{},
		&models.Message{},
		&models.PortfolioImage{},
	)
}

// setupRouter builds the gin engine with CORS, auth middleware and all
// API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public provider pages
		v1.GET("/providers/:id", controllers.GetProvider)
		v1.GET("/providers/:id/services", controllers.ListProviderServices)
		v1.GET("/providers/:id/portfolio", controllers.ListPortfolio)
		v1.GET("/providers/:id/slots", controllers.GetSlots)
		v1.GET("/providers/:id/availability", controllers.GetAvailability)

		authenticated := v1.Group("")
		authenticated.Use(middleware.EnsureValidToken(cfg))
		{
			authenticated.POST("/users", controllers.CreateUser)
			authenticated.GET("/users/me", controllers.GetMyProfile)
			authenticated.PATCH("/users/me", controllers.UpdateMyProfile)

			authenticated.PUT("/providers/me/settings", controllers.UpdateProviderSettings)
			authenticated.GET("/providers/me/services", controllers.ListMyServices)
			authenticated.POST("/providers/me/services", controllers.CreateService)
			authenticated.PATCH("/providers/me/services/:id", controllers.UpdateService)
			authenticated.DELETE("/providers/me/services/:id", controllers.DeleteService)

			authenticated.PUT("/providers/me/availability", controllers.SaveAvailability)
			authenticated.GET("/providers/me/bookings", controllers.ListProviderBookings)

			authenticated.POST("/providers/me/portfolio", controllers.UploadPortfolioImage)
			authenticated.DELETE("/providers/me/portfolio/:id", controllers.DeletePortfolioImage)

			authenticated.POST("/bookings", controllers.CreateBooking)
			authenticated.GET("/bookings", controllers.ListMyBookings)
			authenticated.GET("/bookings/:id", controllers.GetBooking)
			authenticated.PATCH("/bookings/:id/status", controllers.UpdateBookingStatus)
			authenticated.DELETE("/bookings/:id", controllers.DeleteBooking)

			authenticated.POST("/bookings/:id/messages", controllers.SendMessage)
			authenticated.GET("/bookings/:id/messages", controllers.ListMessages)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "GlowBook API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
