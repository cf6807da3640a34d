package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/utils/log"
)

const HeaderAPIKey = "x-api-key"

// APIKeyMiddleware checks the x-api-key header against serverKey. An empty
// serverKey fails every request with 500, whatever key the caller sends.
func APIKeyMiddleware(serverKey string, hasher domain.Hasher) echo.MiddlewareFunc {
	want := []byte(hasher.Hash([]byte(serverKey)))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if serverKey == "" {
				log.WithCtx(c.Request().Context()).Error("api key check enabled but no server key configured")
				return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgMisconfigured})
			}

			key := c.Request().Header.Get(HeaderAPIKey)
			got := []byte(hasher.Hash([]byte(key)))
			if key == "" || subtle.ConstantTimeCompare(got, want) != 1 {
				log.WithCtx(c.Request().Context()).Warn("rejected request", zap.Bool("key_present", key != ""))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: MsgUnauthorized})
			}
			return next(c)
		}
	}
}
