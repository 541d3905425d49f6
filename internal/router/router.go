package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	cartHandler *handler.CartHandler,
	productHandler *handler.ProductHandler,
) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions, http.MethodPatch,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderXRequestedWith, echo.HeaderContentType,
			echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXCSRFToken, "X-Api-Version",
		},
	}))

	e.Validator = handler.NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Auth routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, routeGate(jwtService)...)

	// Product routes
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	// Cart routes
	api.GET("/cart/:userId", cartHandler.GetCart)
	api.POST("/cart/:userId", cartHandler.AddItem)
	api.DELETE("/cart/:userId", cartHandler.ClearCart)
	api.PUT("/cart/:userId/:productId", cartHandler.UpdateQuantity)
	api.DELETE("/cart/:userId/:productId", cartHandler.RemoveItem)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Warn("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
