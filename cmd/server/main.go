// @title           Clothora Backend API
// @version         1.0.0
// @description     Backend API for the Clothora AI custom-clothing store. It runs the design wizard, the checkout flow, wishlist management and order fulfillment, with AI design generation and real-time order updates via Supabase Realtime.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clothora-backend/internal/config"
	"clothora-backend/internal/database"
	"clothora-backend/internal/designgen"
	"clothora-backend/internal/handlers"
	"clothora-backend/internal/logging"
	"clothora-backend/internal/middleware"
	"clothora-backend/internal/services"
	"clothora-backend/internal/session"
	"clothora-backend/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(cfg.LogLevel)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Generation collaborator (Gemini).
	genClient, err := designgen.NewClient(ctx, cfg.GoogleAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generation client")
	}

	// Supabase clients.
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Supabase client")
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage client")
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Direct database connection for queries and migrations. The server can
	// come up without one, but orders, addresses and profiles need it.
	var dbClient *supabase.DatabaseClient
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set; migrations skipped and database operations unavailable")
	} else {
		dbClient, err = supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize database client; database operations unavailable")
			dbClient = nil
		} else {
			defer dbClient.Close()

			migrator, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				log.Warn().Err(err).Msg("failed to initialize migrator")
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Warn().Err(err).Msg("migration failed")
				} else {
					log.Info().Msg("migrations completed")
				}
			}
		}
	}

	// Per-user session state and domain services.
	sessions := session.NewManager()
	generationService := services.NewGenerationService(genClient, storageClient)
	var orderService *services.OrderService
	if dbClient != nil {
		orderService = services.NewOrderService(dbClient, realtimeClient, cfg.CheckoutResetDelay)
	} else {
		log.Warn().Msg("order submission disabled without a database connection")
	}

	designHandler := handlers.NewDesignHandler(sessions, generationService, genClient)
	checkoutHandler := handlers.NewCheckoutHandler(sessions, orderService)
	wishlistHandler := handlers.NewWishlistHandler(sessions)
	orderHandler := handlers.NewOrderHandler(dbClient)
	addressHandler := handlers.NewAddressHandler(dbClient)
	profileHandler := handlers.NewProfileHandler(dbClient)
	adminHandler := handlers.NewAdminHandler(dbClient, realtimeClient)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Design wizard
	api.GET("/design", designHandler.GetProgress)
	api.PUT("/design/prompt", designHandler.SetPrompt)
	api.PUT("/design/filters", designHandler.SetFilters)
	api.POST("/design/step", designHandler.AdvanceStep)
	api.POST("/design/generate", designHandler.Generate)
	api.POST("/design/select", designHandler.SelectImage)
	api.POST("/design/refine-prompt", designHandler.RefinePrompt)
	api.POST("/design/reset", designHandler.Reset)

	// Checkout
	api.GET("/checkout", checkoutHandler.Get)
	api.POST("/checkout/start", checkoutHandler.Start)
	api.PUT("/checkout/address", checkoutHandler.SetAddress)
	api.PUT("/checkout/payment", checkoutHandler.SetPayment)
	api.PUT("/checkout/progress", checkoutHandler.SetProgress)
	api.POST("/checkout/submit", checkoutHandler.Submit)
	api.POST("/checkout/reset", checkoutHandler.Reset)

	// Wishlist
	api.GET("/wishlist", wishlistHandler.List)
	api.POST("/wishlist", wishlistHandler.Add)
	api.DELETE("/wishlist", wishlistHandler.Remove)
	api.GET("/wishlist/contains", wishlistHandler.Contains)
	api.POST("/wishlist/clear", wishlistHandler.Clear)

	// Orders, addresses and profile
	api.GET("/orders", orderHandler.List)
	api.GET("/addresses", addressHandler.List)
	api.POST("/addresses", addressHandler.Create)
	api.PUT("/addresses/:address_id", addressHandler.Update)
	api.DELETE("/addresses/:address_id", addressHandler.Delete)
	api.GET("/profile", profileHandler.Get)
	api.PATCH("/profile", profileHandler.Update)

	// Admin
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/orders", adminHandler.ListOrders)
	admin.PATCH("/orders/:order_id/status", adminHandler.UpdateOrderStatus)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
