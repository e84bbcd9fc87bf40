package main

import (
	"fmt"
	"log"
	"os"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/handlers"
	"real-estate-marketplace/internal/lifecycle"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/payment"
	"real-estate-marketplace/internal/reconcile"
	"real-estate-marketplace/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/marketplace.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	var store *database.Store
	if dbType == "postgres" {
		log.Println("Using PostgreSQL")
		pgCfg := appConfig.Database.Postgres
		store, err = database.NewPostgres(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portString(pgCfg.Port), "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "marketplace_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "marketplace_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "marketplace_db"),
			pgCfg.SSLMode,
		)
	} else {
		log.Println("Using MySQL")
		mysqlCfg := appConfig.Database.MySQL
		store, err = database.NewMySQL(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portString(mysqlCfg.Port), "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "marketplace_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "marketplace_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "marketplace_db"),
		)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	// Initialize schema
	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Initialize search index (optional)
	var searchClient *search.Client
	if appConfig.Search.Meilisearch.Enabled {
		host := getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700")
		apiKey := getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "")
		searchClient = search.NewClient(host, apiKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	}

	// Identity token service
	tokenSecret := getEnvOrConfig(appConfig.Auth.TokenSecret, "ACCESS_TOKEN_SECRET", "")
	if tokenSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET is required")
	}
	tokens := auth.NewTokenService(tokenSecret, appConfig.Auth.TokenTTL())

	// Payment gateway
	stripeKey := getEnvOrConfig(appConfig.Payment.StripeSecretKey, "STRIPE_SECRET_KEY", "")
	if stripeKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}
	gateway := payment.NewStripeGateway(stripeKey, appConfig.Payment.Currency)

	// Lifecycle managers. The search index is optional; lifecycle treats a
	// nil indexer as disabled.
	var indexer lifecycle.Indexer
	if searchClient != nil {
		indexer = searchClient
	}
	propertyManager := lifecycle.NewPropertyManager(store, indexer)
	offerManager := lifecycle.NewOfferManager(store)

	// Cascade reconciler
	reconciler := reconcile.NewReconciler(store, propertyManager, appConfig.Reconcile.IntervalMinutes)
	if appConfig.Reconcile.Enabled {
		if err := reconciler.Start(); err != nil {
			log.Printf("Warning: Failed to start reconciler: %v", err)
		}
		defer reconciler.Stop()
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(tokens, appConfig.Auth.SecureCookies)
	userHandler := handlers.NewUserHandler(store, propertyManager)
	propertyHandler := handlers.NewPropertyHandler(store, propertyManager, searchClient)
	offerHandler := handlers.NewOfferHandler(store, offerManager)
	paymentHandler := handlers.NewPaymentHandler(gateway, store)
	reviewHandler := handlers.NewReviewHandler(store)
	adminHandler := handlers.NewAdminHandler(store, reconciler)

	// Setup Gin router
	r := gin.Default()

	// CORS configuration; credentials must be allowed for the cookie
	// transport to work cross-origin.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// Capability-gate checks, evaluated in order. Every route declares its
	// check set here: public, authenticated, or authenticated plus role.
	authed := auth.RequireToken(tokens)
	adminOnly := auth.RequireRole(store, models.RoleAdmin)
	agentOnly := auth.RequireRole(store, models.RoleAgent)

	r.GET("/health", healthCheck)

	// Token transport
	r.POST("/jwt", authHandler.IssueToken)
	r.GET("/logout", authHandler.Logout)

	// Users
	r.PUT("/users", userHandler.Upsert)
	r.GET("/users", authed, adminOnly, userHandler.List)
	r.GET("/users/email/:email", authed, userHandler.GetByEmail)
	r.PATCH("/users/:id/role", authed, adminOnly, userHandler.SetRole)
	r.PATCH("/users/:id/fraud", authed, adminOnly, userHandler.DemoteFraud)
	r.DELETE("/users/:id", authed, adminOnly, userHandler.Delete)

	// Properties
	r.GET("/properties", propertyHandler.List)
	r.GET("/properties/:id", propertyHandler.Get)
	r.GET("/properties/agent/:email", authed, agentOnly, propertyHandler.ByAgent)
	r.POST("/properties", authed, agentOnly, propertyHandler.Create)
	r.PUT("/properties/:id", authed, agentOnly, propertyHandler.Update)
	r.DELETE("/properties/:id", authed, propertyHandler.Delete)
	r.PATCH("/properties/:id/verify", authed, adminOnly, propertyHandler.Verify)
	r.PATCH("/properties/:id/bought", authed, propertyHandler.MarkBought)
	r.PATCH("/properties/:id/wishlist", authed, propertyHandler.SetWishlist)
	r.DELETE("/properties/:id/wishlist", authed, propertyHandler.ClearWishlist)
	r.PATCH("/properties/:id/advertise", authed, adminOnly, propertyHandler.SetAdvertise)
	r.DELETE("/properties/:id/advertise", authed, adminOnly, propertyHandler.ClearAdvertise)

	// Offers
	r.POST("/offers", authed, offerHandler.Submit)
	r.GET("/offers", authed, offerHandler.List)
	r.PATCH("/offers/:id/accept", authed, agentOnly, offerHandler.Accept)
	r.PATCH("/offers/:id/reject", authed, agentOnly, offerHandler.Reject)
	r.DELETE("/offers/:id", authed, offerHandler.Withdraw)

	// Payments and bookings
	r.POST("/create-payment-intent", authed, paymentHandler.CreateIntent)
	r.POST("/bookings", authed, paymentHandler.CreateBooking)
	r.GET("/bookings", authed, paymentHandler.ListBookings)

	// Reviews
	r.POST("/reviews", authed, reviewHandler.Create)
	r.GET("/reviews", reviewHandler.List)
	r.DELETE("/reviews/:id", authed, reviewHandler.Delete)

	// Admin API routes
	admin := r.Group("/api/admin", authed, adminOnly)
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.POST("/reconcile/run", adminHandler.RunReconcile)
	}

	port := getEnvOrConfig(appConfig.Server.Port, "PORT", "5000")
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// getEnv returns an environment variable or a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOrConfig prefers the config value, then the environment, then the
// fallback
func getEnvOrConfig(configValue, envKey, fallback string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, fallback)
}

// portString renders a config port, treating 0 as unset
func portString(port int) string {
	if port <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", port)
}
