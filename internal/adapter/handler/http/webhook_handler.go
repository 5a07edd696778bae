package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/usecase"
)

type WebhookHandler struct {
	webhooks *usecase.WebhookService
	logger   *zap.Logger
}

func NewWebhookHandler(webhooks *usecase.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		logger:   logger,
	}
}

// HandleWebhook handles POST /api/v1/webhooks/stripe. The body must reach
// verification byte-for-byte as delivered, so it is read raw and never
// bound through the JSON binder.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("error reading webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "error reading request body"})
	}

	signature := c.Request().Header.Get("Stripe-Signature")

	ack, err := h.webhooks.ProcessWebhook(c.Request().Context(), body, signature)
	if err != nil {
		h.logger.Warn("webhook processing failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, ack)
}
