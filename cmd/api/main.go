package main

import (
	"fmt"
	"net/http"
	"os"

	"quantia/internal/config"
	"quantia/internal/database"
	"quantia/internal/handlers"
	"quantia/internal/ledger"
	"quantia/internal/logger"
	"quantia/internal/market"
	"quantia/internal/middleware"
	"quantia/internal/services"
	"quantia/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "quantia/internal/docs" // Import swagger docs
)

// @title           Quantia API
// @version         1.0
// @description     Quantia is a portfolio management application for tracking cash balances, executing simulated trades, and analysing market data.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:3000
// @BasePath  /

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
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// The ledger backend depends on the driver: MySQL routes every mutation
	// through the stored procedures; SQLite enforces the same invariants
	// in-process.
	db := dbManager.DB()
	var ledgerBackend ledger.Backend
	if dbManager.Driver() == database.DriverMySQL {
		sqlDB, err := dbManager.SQLDB()
		if err != nil {
			return fmt.Errorf("failed to get underlying DB: %w", err)
		}
		ledgerBackend = ledger.NewProcedureBackend(sqlDB)
	} else {
		ledgerBackend = ledger.NewStateBackend(db)
	}

	// Initialize services
	authService := services.NewAuthService(db)
	accountService := services.NewAccountService(db, dbManager)
	ledgerService := services.NewLedgerService(db, ledgerBackend)

	// Initialize the market data client
	marketClient := market.NewClient(http.DefaultClient, appConfig.MarketBaseURL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appConfig)
	accountHandler := handlers.NewAccountHandler(accountService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	marketHandler := handlers.NewMarketHandler(marketClient)
	pagesHandler := handlers.NewPagesHandler(appConfig)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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

	// Static assets referenced by the pages
	router.Static("/static", appConfig.StaticDir+"/static")

	// Public pages
	pagesHandler.RegisterPublic(router)
	router.GET("/logout", authHandler.Logout)

	// Pages behind the session gate
	gated := router.Group("/")
	gated.Use(middleware.SessionGate(appConfig))
	pagesHandler.RegisterGated(gated)

	// Auth, ledger and directory endpoints
	dbGroup := router.Group("/db")
	dbGroup.GET("/check-conn", accountHandler.CheckConnection)
	dbGroup.POST("/login", authHandler.Login)
	dbGroup.POST("/register", authHandler.Register)
	dbGroup.POST("/change-risk", ledgerHandler.ChangeRisk)
	dbGroup.POST("/deposit", ledgerHandler.Deposit)
	dbGroup.POST("/withdrawal", ledgerHandler.Withdraw)
	dbGroup.POST("/buy-asset", ledgerHandler.Buy)
	dbGroup.POST("/sell-asset", ledgerHandler.Sell)
	dbGroup.GET("/user/*lookup", accountHandler.LookupUser)
	dbGroup.GET("/transactions/:userId", accountHandler.ListTransactions)
	dbGroup.GET("/portfolios/:userId", accountHandler.ListPortfolios)
	dbGroup.GET("/portfolio/assets/:portfolioId", accountHandler.GetPortfolioAssets)

	// Market data pass-through endpoints
	api := router.Group("/api")
	api.GET("/search/:symbol", marketHandler.Search)
	api.GET("/historical/:symbol", marketHandler.Historical)
	api.GET("/today/:symbol", marketHandler.Intraday)
	api.GET("/quote/:symbol", marketHandler.Quote)
	api.GET("/price/:symbol", marketHandler.Price)
	api.GET("/news/:symbol", marketHandler.SymbolNews)
	api.GET("/news", marketHandler.NewsFeed)

	log.Infof("Starting Quantia server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
