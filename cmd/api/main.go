package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"event-platform/internal/config"
	"event-platform/internal/gateway"
	"event-platform/internal/handlers"
	"event-platform/internal/middleware"
	"event-platform/internal/store"
	"event-platform/internal/sweeper"
	ws "event-platform/internal/websocket"
)

func main() {
	log.Println("Starting event platform server...")

	// Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("cannot load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config: ", err)
	}

	// Connect to the Database
	db, err := sqlx.Connect("pgx", cfg.DSN)
	if err != nil {
		log.Fatal("cannot connect to database:", err)
	}
	defer db.Close()
	log.Println("Successfully connected to PostgreSQL!")

	// Realtime hub for contribution feeds
	hub := ws.NewHub()
	go hub.Run()

	// Ledger store and background expiry of stale pending rows
	contributions := store.NewContributions(db)
	go sweeper.New(contributions, time.Duration(cfg.PendingTTLMinutes)*time.Minute).Run()

	gatewayCfg := gateway.Config{
		ClientID:     cfg.GatewayClientID,
		ClientSecret: cfg.GatewayClientSecret,
		BaseURL:      cfg.GatewayBaseURL,
		AppURL:       cfg.AppURL,
	}
	gatewayClient := gateway.NewClient(gatewayCfg)

	// Set up our Gin router
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(cors.Default())

	// Simple test route
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Create an instance of each handler
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, cfg.AdminSet())
	eventHandler := handlers.NewEventHandler(db)
	planHandler := handlers.NewPlanHandler(db)
	contributionHandler := handlers.NewContributionHandler(contributions, gatewayClient, gatewayCfg, hub)
	paymentHandler := handlers.NewPaymentHandler(gatewayClient, gatewayCfg)
	webhookHandler := handlers.NewWebhookHandler(contributions, hub, cfg.GatewayWebhookSecret)
	wsHandler := handlers.NewWebSocketHandler(db, hub)

	// All API routes under /api
	api := r.Group("/api")
	{
		// Auth Endpoint
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public reads
		api.GET("/events", eventHandler.ListEvents)
		api.GET("/events/:id", eventHandler.GetEvent)
		api.GET("/events/:id/plan", planHandler.ListPlanItems)
		api.GET("/events/:id/contributions", contributionHandler.ListContributions)

		// Contribution flow and gateway callbacks
		api.POST("/events/:id/contributions", contributionHandler.CreateContribution)
		api.POST("/payments/order", paymentHandler.CreateOrder)
		api.POST("/payments/webhook", webhookHandler.HandlePaymentNotification)

		// Admin-only mutations
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireAdmin())
		{
			admin.POST("/events", eventHandler.CreateEvent)
			admin.PUT("/events/:id", eventHandler.UpdateEvent)
			admin.DELETE("/events/:id", eventHandler.DeleteEvent)
			admin.POST("/events/:id/plan", planHandler.CreatePlanItem)
			admin.PUT("/plan/:id", planHandler.UpdatePlanItem)
			admin.DELETE("/plan/:id", planHandler.DeletePlanItem)
			admin.DELETE("/contributions/:id", contributionHandler.DeleteContribution)
		}
	}

	// Realtime contribution feed per event
	r.GET("/ws/events/:id", wsHandler.ServeWs)

	// Start the server
	log.Println("Server starting on http://localhost:8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("could not start server:", err)
	}
}
