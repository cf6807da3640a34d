package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/utils/log"
)

type ServerConfig struct {
	AuthEnabled  bool
	ServerAPIKey string
	ClientID     string
	ClientAPIKey string
}

// NewServer wires middleware and routes. It does not start listening.
func NewServer(cfg ServerConfig, prompts *PromptHandler, hasher domain.Hasher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := log.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.WithCtx(c.Request().Context()).Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			HeaderAPIKey,
		},
		MaxAge: 86400,
	}))

	e.Use(middleware.BodyLimit("1MB"))

	static := newStaticHandler(cfg.ClientID, cfg.ClientAPIKey)
	e.GET("/", static.Index)
	e.GET("/env-config.js", static.EnvConfig)
	e.GET("/health", HealthCheck)

	var guards []echo.MiddlewareFunc
	if cfg.AuthEnabled {
		guards = append(guards, APIKeyMiddleware(cfg.ServerAPIKey, hasher))
	}
	e.POST("/", prompts.HandlePrompt, guards...)

	return e
}
