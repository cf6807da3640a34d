package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"text/template"

	"github.com/labstack/echo/v4"
)

//go:embed web/index.html
var indexHTML []byte

type staticHandler struct {
	envConfig []byte
}

// newStaticHandler renders env-config.js once; the values are fixed for the
// process lifetime.
func newStaticHandler(clientID, apiKey string) *staticHandler {
	js := fmt.Sprintf("const CLIENT_ID = '%s';\nconst API_KEY = '%s';\n",
		template.JSEscapeString(clientID),
		template.JSEscapeString(apiKey))
	return &staticHandler{envConfig: []byte(js)}
}

func (h *staticHandler) Index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexHTML)
}

func (h *staticHandler) EnvConfig(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "application/javascript; charset=utf-8", h.envConfig)
}
