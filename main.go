package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/handlers"
	"goalwise/api/kafka"
	"goalwise/api/logger"
	"goalwise/api/middleware"
	"goalwise/api/mongodb"
	"goalwise/api/worker"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	development := os.Getenv("GIN_MODE") != "release"
	if err := logger.Init(development, logger.LogLevel(os.Getenv("LOG_LEVEL"))); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Initialize Plaid client
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", os.Getenv("PLAID_CLIENT_ID"))
	configuration.AddDefaultHeader("PLAID-SECRET", os.Getenv("PLAID_SECRET"))
	configuration.UseEnvironment(plaid.Sandbox) // Change to Development or Production as needed
	handlers.PlaidClient = plaid.NewAPIClient(configuration)
	worker.PlaidClient = handlers.PlaidClient

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

func main() {
	defer logger.Sync()

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}) // Only trust local proxies

	router.Use(middleware.CorsMiddleware)

	// Initialize databases
	if err := db.InitDB(); err != nil {
		logger.Get().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()
	if err := mongodb.InitMongoDB(); err != nil {
		logger.Get().Fatal("Failed to initialize MongoDB", zap.Error(err))
	}
	defer mongodb.CloseMongoDB()

	handlers.InitInsightService()

	// Sync pipeline: Kafka feeds the worker pool
	pool := worker.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	if err := kafka.InitProducer(); err != nil {
		logger.Get().Fatal("Failed to initialize Kafka producer", zap.Error(err))
	}
	if err := kafka.StartSyncConsumer(pool); err != nil {
		logger.Get().Fatal("Failed to start Kafka consumer", zap.Error(err))
	}

	// API routes
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware)
	{
		// Insight routes
		api.POST("/insights", handlers.HandleGenerateInsights)

		// Plaid routes
		api.POST("/plaid/create-link-token", handlers.CreateLinkToken)
		api.POST("/plaid/exchange-token", handlers.ExchangePublicToken)
		api.POST("/plaid/items", handlers.GetItems)
		api.POST("/plaid/sync", handlers.HandleSyncTransactions)
		api.GET("/transactions", handlers.HandleGetTransactions)

		// Profile routes
		api.GET("/profile", handlers.HandleGetProfile)
		api.PUT("/profile", handlers.HandleUpdateProfile)

		// Budget routes
		api.GET("/budget-items", handlers.HandleGetBudgetItems)
		api.POST("/budget-items", handlers.HandleCreateBudgetItem)
		api.PUT("/budget-items/:id", handlers.HandleUpdateBudgetItem)
		api.DELETE("/budget-items/:id", handlers.HandleDeleteBudgetItem)

		api.GET("/goals", handlers.HandleGetGoals)
		api.POST("/goals", handlers.HandleCreateGoal)
		api.PUT("/goals/:id", handlers.HandleUpdateGoal)
		api.DELETE("/goals/:id", handlers.HandleDeleteGoal)

		// Billing routes
		api.POST("/billing/create-checkout-session", handlers.HandleCreateCheckoutSession)
		api.GET("/billing/prices", handlers.HandleGetPrices)
	}

	// Webhooks carry their own verification
	router.POST("/webhook/stripe", middleware.StripeWebhookVerifier, handlers.HandleStripeWebhook)
	router.POST("/webhook/plaid", middleware.PlaidWebhookVerifier, handlers.HandlePlaidWebhook)

	// Internal routes for the sync cron
	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware)
	{
		internal.POST("/sync/run", handlers.HandleInternalSyncRun)
	}

	router.GET("/metrics/worker", gin.WrapF(pool.MetricsHandler))

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Get().Info("Server starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Get().Fatal("Failed to start server", zap.Error(err))
	}
}
