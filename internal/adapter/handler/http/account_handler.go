package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/middleware/auth"
	"github.com/appcrates/payment-service/internal/usecase"
)

type AccountHandler struct {
	linker *usecase.AccountLinker
	logger *zap.Logger
}

func NewAccountHandler(linker *usecase.AccountLinker, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		linker: linker,
		logger: logger,
	}
}

type createCustomerRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// GetOrCreateCustomer handles POST /api/v1/accounts/customer
func (h *AccountHandler) GetOrCreateCustomer(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	account, err := h.linker.GetOrCreateCustomer(c.Request().Context(), user.UserID, req.Email, req.Phone)
	if err != nil {
		h.logger.Error("failed to get or create customer",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

type createConnectedAccountRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// GetOrCreateConnectedAccount handles POST /api/v1/accounts/connected
func (h *AccountHandler) GetOrCreateConnectedAccount(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req createConnectedAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	account, err := h.linker.GetOrCreateConnectedAccount(c.Request().Context(), user.UserID, req.Email)
	if err != nil {
		h.logger.Error("failed to get or create connected account",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

type attachSourceRequest struct {
	SourceToken    string `json:"source_token" validate:"required"`
	CardHolderName string `json:"card_holder_name"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
}

// AttachSource handles POST /api/v1/accounts/sources
func (h *AccountHandler) AttachSource(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req attachSourceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "source_token is required"})
	}

	account, err := h.linker.AttachSource(c.Request().Context(), usecase.AttachSourceParams{
		UserID:         user.UserID,
		SourceToken:    req.SourceToken,
		CardHolderName: req.CardHolderName,
		Email:          req.Email,
		Phone:          req.Phone,
	})
	if err != nil {
		h.logger.Error("failed to attach source",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

type onboardingLinkRequest struct {
	AccountID  string `json:"account_id"`
	RefreshURL string `json:"refresh_url" validate:"omitempty,url"`
	ReturnURL  string `json:"return_url" validate:"omitempty,url"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// CreateOnboardingLink handles POST /api/v1/accounts/onboarding-link
func (h *AccountHandler) CreateOnboardingLink(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req onboardingLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	link, err := h.linker.CreateOnboardingLink(c.Request().Context(), usecase.OnboardingLinkParams{
		UserID:     user.UserID,
		AccountID:  req.AccountID,
		RefreshURL: req.RefreshURL,
		ReturnURL:  req.ReturnURL,
		Email:      req.Email,
	})
	if err != nil {
		h.logger.Error("failed to create onboarding link",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, link)
}

// ProvisionCustomers handles POST /api/v1/admin/customers/provision
func (h *AccountHandler) ProvisionCustomers(c echo.Context) error {
	visited, err := h.linker.ProvisionAllCustomers(c.Request().Context())
	if err != nil {
		h.logger.Error("bulk customer provisioning failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"visited": visited})
}

// RemoveCustomers handles DELETE /api/v1/admin/customers
func (h *AccountHandler) RemoveCustomers(c echo.Context) error {
	limit := int64(500)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		limit = parsed
	}

	deleted, err := h.linker.RemoveAllCustomers(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("bulk customer removal failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
