package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stellar-checkout/config"
	"github.com/yourusername/stellar-checkout/contract"
	"github.com/yourusername/stellar-checkout/handlers"
	"github.com/yourusername/stellar-checkout/middleware"
	"github.com/yourusername/stellar-checkout/stellar"
	"github.com/yourusername/stellar-checkout/store"
	"github.com/yourusername/stellar-checkout/wallet"
)

func main() {
	log := logrus.New()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Open the durable client cache
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open cache store: %v", err)
	}
	st := store.New(db, log)

	// The simulated checkout contract owns all authoritative state. Its
	// background ticker keeps settlement moving even with no pollers.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	svc := contract.New(contract.DefaultConfig(), log)
	go svc.Run(ctx)

	// No browser extension capability in a headless server; the signer
	// degrades to mock results.
	signer := wallet.NewFreighterSigner(nil, cfg.NetworkPassphrase, log)
	stellarClient := stellar.NewClient(cfg.HorizonURL, cfg.NetworkPassphrase)

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "stellar-checkout-api",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		h := handlers.NewCheckoutHandler(svc, st, signer, stellarClient, cfg, log)

		// Merchant onboarding and auth
		api.POST("/merchants", h.Onboard)
		api.POST("/auth/refresh", h.Refresh)

		// Wallet boundary
		api.POST("/wallet/connect", h.ConnectWallet)
		api.GET("/wallet/status", h.WalletStatus)

		// Public payer surface
		api.GET("/invoices/:id", h.GetInvoice)
		api.GET("/invoices/:id/status", h.GetInvoiceStatus)
		api.POST("/invoices/:id/pay", h.PayInvoice)
		api.GET("/invoices/:id/receipt", h.Receipt)
		api.GET("/balances/:address", h.GetBalance)

		// Merchant dashboard
		authed := api.Group("/", middleware.JwtAuthMiddleware(cfg))
		authed.POST("/invoices", h.CreateInvoice)
		authed.GET("/invoices", h.ListInvoices)
		authed.POST("/invoices/:id/refund", h.RefundInvoice)
		authed.GET("/merchants/me", h.Me)
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting stellar-checkout API server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
