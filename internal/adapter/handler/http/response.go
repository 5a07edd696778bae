package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/appcrates/payment-service/internal/domain/errors"
)

// errorResponse translates domain errors into HTTP responses. Gateway
// failures keep their classification in the body so API clients can tell
// a decline from an outage.
func errorResponse(c echo.Context, err error) error {
	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationErr.Error()})
	}

	var signatureErr *domainErrors.SignatureError
	if errors.As(err, &signatureErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": signatureErr.Error()})
	}

	if errors.Is(err, domainErrors.ErrAccountNotFound) || errors.Is(err, domainErrors.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	var configErr *domainErrors.ConfigError
	if errors.As(err, &configErr) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": configErr.Error()})
	}

	var gatewayErr *domainErrors.GatewayError
	if errors.As(err, &gatewayErr) {
		status := http.StatusBadGateway
		switch gatewayErr.Kind {
		case domainErrors.GatewayInvalidRequest:
			status = http.StatusBadRequest
		case domainErrors.GatewayDeclined:
			status = http.StatusPaymentRequired
		case domainErrors.GatewayRateLimited:
			status = http.StatusTooManyRequests
		}
		return c.JSON(status, echo.Map{
			"error": gatewayErr.Message,
			"kind":  string(gatewayErr.Kind),
			"code":  gatewayErr.Code,
		})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
