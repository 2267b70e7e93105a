package main

import (
	"fmt"
	"net/http"
	"os"
	"underwritepro/internal/cache"
	"underwritepro/internal/config"
	"underwritepro/internal/database"
	"underwritepro/internal/handlers"
	"underwritepro/internal/logger"
	"underwritepro/internal/middleware"
	"underwritepro/internal/services"
	"underwritepro/internal/underwriting"
	"underwritepro/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "underwritepro/internal/docs" // Import swagger docs
)

// @title           UnderwritePro API
// @version         1.0
// @description     UnderwritePro is a commercial loan origination platform that lets lenders manage borrowers, deals, and documents, and run automated underwriting analysis.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Underwriting result cache: Redis when configured, in-process otherwise
	var resultCache cache.Cache
	if appConfig.RedisAddr != "" {
		resultCache = cache.NewRedis(appConfig.RedisAddr, appConfig.RedisPassword)
		log.Infof("Using Redis result cache at %s", appConfig.RedisAddr)
	} else {
		resultCache = cache.NewMemory()
		log.Info("REDIS_ADDR not set, using in-memory result cache")
	}

	// Initialize services
	db := dbManager.DB()
	calculator := underwriting.NewCalculator(underwriting.DefaultPolicy())
	userService := services.NewUserService(db)
	borrowerService := services.NewBorrowerService(db)
	dealService := services.NewDealService(db)
	documentService := services.NewDocumentService(db, appConfig.UploadDir, appConfig.MaxUploadBytes)
	underwritingService := services.NewUnderwritingService(db, calculator, resultCache)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	borrowerHandler := handlers.NewBorrowerHandler(borrowerService, auditService)
	dealHandler := handlers.NewDealHandler(dealService, auditService)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService)
	underwritingHandler := handlers.NewUnderwritingHandler(underwritingService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Borrower routes
	borrowers := protected.Group("/borrowers")
	borrowers.POST("", borrowerHandler.CreateBorrower)
	borrowers.GET("", borrowerHandler.GetUserBorrowers)
	borrowers.GET("/:id", borrowerHandler.GetBorrowerByID)
	borrowers.PUT("/:id", borrowerHandler.UpdateBorrower)

	// Deal routes
	deals := protected.Group("/deals")
	deals.POST("", dealHandler.CreateDeal)
	deals.GET("", dealHandler.GetUserDeals)
	deals.GET("/:id", dealHandler.GetDealByID)
	deals.PUT("/:id", dealHandler.UpdateDealTerms)
	deals.PATCH("/:id/status", dealHandler.ChangeStatus)

	// Document routes
	deals.POST("/:id/documents", documentHandler.UploadDocument)
	deals.GET("/:id/documents", documentHandler.GetDealDocuments)

	// Underwriting routes
	deals.POST("/:id/underwrite", underwritingHandler.UnderwriteDeal)
	deals.GET("/:id/underwriting", underwritingHandler.GetUnderwriting)

	log.Infof("Starting UnderwritePro backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
