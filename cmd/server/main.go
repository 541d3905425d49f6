package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/docs"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

// @title Storefront API
// @version 1.0
// @description Storefront API with JWT authentication, a product catalog and per-user carts.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	products, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal("catalog init", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", len(products)), zap.String("file", cfg.CatalogFile))

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	cartRepo := repository.NewCartRepository()
	productRepo := repository.NewProductRepository(products)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, log)
	cartService := service.NewCartService(cartRepo, productRepo, log)
	productService := service.NewProductService(productRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	cartHandler := handler.NewCartHandler(cartService, log)
	productHandler := handler.NewProductHandler(productService, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log, jwtService, authHandler, cartHandler, productHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

func loadCatalog(cfg *config.Config) ([]model.Product, error) {
	if cfg.CatalogFile == "" {
		return repository.DefaultProducts(), nil
	}
	return repository.LoadProducts(cfg.CatalogFile)
}

func swaggerURL(cfg *config.Config) string {
	switch {
	case cfg.SwaggerHost == "":
		return "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	case strings.HasPrefix(cfg.SwaggerHost, "http://"), strings.HasPrefix(cfg.SwaggerHost, "https://"):
		return cfg.SwaggerHost + "/swagger/index.html"
	default:
		return "http://" + cfg.SwaggerHost + "/swagger/index.html"
	}
}
