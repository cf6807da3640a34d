package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/usecase"
	"github.com/satriahrh/synapse-agent/utils/log"
)

const (
	MsgPromptRequired = "Prompt is required in the request body."
	MsgInternalError  = "An internal error occurred."
	MsgUnauthorized   = "Unauthorized"
	MsgMisconfigured  = "Internal Server Error"
)

// PromptService is the use case behind POST /.
type PromptService interface {
	HandlePrompt(ctx context.Context, prompt string) (usecase.Result, error)
}

type PromptHandler struct {
	svc PromptService
}

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// PromptResponse omits response when the model returned no candidate text.
type PromptResponse struct {
	Response *string `json:"response,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewPromptHandler(svc PromptService) *PromptHandler {
	return &PromptHandler{svc: svc}
}

// HandlePrompt serves POST /. Upstream failures are logged and reported with
// a generic message only.
func (h *PromptHandler) HandlePrompt(c echo.Context) error {
	var req PromptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgPromptRequired})
	}

	ctx := c.Request().Context()
	result, err := h.svc.HandlePrompt(ctx, req.Prompt)
	switch {
	case errors.Is(err, domain.ErrPromptRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgPromptRequired})
	case err != nil:
		log.WithCtx(ctx).Error("error during request execution", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgInternalError})
	}

	var resp PromptResponse
	if result.HasReply {
		resp.Response = &result.Reply
	}
	return c.JSON(http.StatusOK, resp)
}

// HealthCheck endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "synapse-agent",
	})
}
