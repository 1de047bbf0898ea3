package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"

	"storefront/api/handlers"
	"storefront/api/middleware"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
	"storefront/internal/store/memory"
	"storefront/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// Initialize services
	productService := services.NewProductService(st)
	categoryService := services.NewCategoryService(st)
	cartService := services.NewCartService(st)
	orderService := services.NewOrderService(st)
	addressService := services.NewAddressService(st)
	paymentService := services.NewPaymentService(st)
	reviewService := services.NewReviewService(st)
	userService := services.NewUserService(st)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	addressHandler := handlers.NewAddressHandler(addressService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)

	router := setupRouter(cfg,
		productHandler, categoryHandler, cartHandler, orderHandler,
		addressHandler, paymentHandler, reviewHandler, userHandler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run server in goroutine
	go func() {
		log.Printf("Server starting on %s (store=%s)", cfg.Addr, cfg.Store)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.Store == "memory" {
		st := memory.New()
		st.SeedUser(models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin})
		st.SeedUser(models.User{Username: "demo", Email: "demo@example.com", Role: models.RoleCustomer})
		return st, nil
	}

	pgCfg := postgres.NewConfig(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	pgCfg.SSLMode = cfg.DBSSLMode
	pgCfg.MaxOpenConns = cfg.DBMaxOpenConns
	pgCfg.MaxIdleConns = cfg.DBMaxIdleConns
	pgCfg.ConnMaxLifetime = cfg.DBConnMaxLifetime

	st, err := postgres.Open(pgCfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(context.Background()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func setupRouter(cfg config.Config,
	productHandler *handlers.ProductHandler,
	categoryHandler *handlers.CategoryHandler,
	cartHandler *handlers.CartHandler,
	orderHandler *handlers.OrderHandler,
	addressHandler *handlers.AddressHandler,
	paymentHandler *handlers.PaymentHandler,
	reviewHandler *handlers.ReviewHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {
	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Identity())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Public catalog
		products := api.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/reviews", reviewHandler.ListProductReviews)
			products.GET("/:id/reviews/summary", reviewHandler.GetReviewSummary)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
		}

		api.GET("/reviews/:id", reviewHandler.GetReview)

		// Authenticated routes
		auth := api.Group("", middleware.RequireAuth())
		{
			cart := auth.Group("/cart")
			{
				cart.GET("", cartHandler.GetCart)
				cart.DELETE("", cartHandler.ClearCart)
				cart.POST("/items", cartHandler.AddItem)
				cart.PUT("/items/:item_id", cartHandler.UpdateItem)
				cart.DELETE("/items/:item_id", cartHandler.RemoveItem)
			}

			orders := auth.Group("/orders")
			{
				orders.POST("", orderHandler.PlaceOrder)
				orders.GET("", orderHandler.ListOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.GET("/:id/items", orderHandler.GetOrderItems)
				orders.POST("/:id/cancel", orderHandler.CancelOrder)
			}

			addresses := auth.Group("/addresses")
			{
				addresses.GET("", addressHandler.ListAddresses)
				addresses.GET("/:id", addressHandler.GetAddress)
				addresses.POST("", addressHandler.CreateAddress)
				addresses.PUT("/:id", addressHandler.UpdateAddress)
				addresses.DELETE("/:id", addressHandler.DeleteAddress)
				addresses.PUT("/:id/default", addressHandler.SetDefaultAddress)
			}

			methods := auth.Group("/payment-methods")
			{
				methods.GET("", paymentHandler.ListPaymentMethods)
				methods.GET("/:id", paymentHandler.GetPaymentMethod)
				methods.POST("", paymentHandler.CreatePaymentMethod)
				methods.PUT("/:id", paymentHandler.UpdatePaymentMethod)
				methods.DELETE("/:id", paymentHandler.DeletePaymentMethod)
			}

			payments := auth.Group("/payments")
			{
				payments.GET("", paymentHandler.ListPayments)
				payments.GET("/:id", paymentHandler.GetPayment)
				payments.POST("/process", paymentHandler.ProcessPayment)
			}

			auth.GET("/users/me", userHandler.GetMe)
			auth.PUT("/users/me", userHandler.UpdateMe)
			auth.GET("/users/me/reviews", reviewHandler.ListMyReviews)

			auth.POST("/reviews", reviewHandler.CreateReview)
			auth.PUT("/reviews/:id", reviewHandler.UpdateReview)
			auth.DELETE("/reviews/:id", reviewHandler.DeleteReview)
		}

		// Admin routes
		admin := api.Group("", middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.POST("/products", productHandler.CreateProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.POST("/products/:id/variants", productHandler.CreateVariant)
			admin.PUT("/variants/:id", productHandler.UpdateVariant)
			admin.DELETE("/variants/:id", productHandler.DeleteVariant)

			admin.POST("/categories", categoryHandler.CreateCategory)
			admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
			admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

			admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
			admin.DELETE("/orders/:id", orderHandler.DeleteOrder)

			admin.PUT("/payments/:id/status", paymentHandler.UpdatePaymentStatus)

			admin.GET("/users", userHandler.ListUsers)
		}
	}

	// Debug endpoints in development
	if gin.Mode() != gin.ReleaseMode {
		router.GET("/debug/metrics", func(c *gin.Context) {
			metrics.WritePrometheus(c.Writer, true)
		})
	}

	return router
}
