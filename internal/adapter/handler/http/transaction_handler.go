package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/domain/gateway"
	"github.com/appcrates/payment-service/internal/middleware/auth"
	"github.com/appcrates/payment-service/internal/usecase"
)

type TransactionHandler struct {
	transactions *usecase.TransactionService
	logger       *zap.Logger
}

func NewTransactionHandler(transactions *usecase.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

type createChargeRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency"`
	SourceToken string          `json:"source_token"`
	Description string          `json:"description"`
}

// CreateCharge handles POST /api/v1/transactions/charges
func (h *TransactionHandler) CreateCharge(c echo.Context) error {
	var req createChargeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	charge, err := h.transactions.CreateCharge(c.Request().Context(), usecase.ChargeParams{
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		SourceToken: req.SourceToken,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("failed to create charge",
			zap.String("customer_id", req.CustomerID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, charge)
}

type createRefundRequest struct {
	ChargeID string `json:"charge_id" validate:"required"`
}

// CreateRefund handles POST /api/v1/transactions/refunds
func (h *TransactionHandler) CreateRefund(c echo.Context) error {
	var req createRefundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "charge_id is required"})
	}

	refund, err := h.transactions.CreateRefund(c.Request().Context(), req.ChargeID)
	if err != nil {
		h.logger.Error("failed to create refund",
			zap.String("charge_id", req.ChargeID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, refund)
}

type createTransferRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
}

// CreateTransfer handles POST /api/v1/transactions/transfers
func (h *TransactionHandler) CreateTransfer(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req createTransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	transfer, err := h.transactions.CreateTransfer(c.Request().Context(), usecase.TransferParams{
		UserID:      user.UserID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("failed to create transfer",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, transfer)
}

type createTopUpRequest struct {
	Amount              decimal.Decimal `json:"amount" validate:"required"`
	Currency            string          `json:"currency"`
	Description         string          `json:"description"`
	StatementDescriptor string          `json:"statement_descriptor"`
}

// CreateTopUp handles POST /api/v1/transactions/topups
func (h *TransactionHandler) CreateTopUp(c echo.Context) error {
	var req createTopUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	topup, err := h.transactions.CreateTopUp(c.Request().Context(), usecase.TopUpParams{
		Amount:              req.Amount,
		Currency:            req.Currency,
		Description:         req.Description,
		StatementDescriptor: req.StatementDescriptor,
	})
	if err != nil {
		h.logger.Error("failed to create top-up", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, topup)
}

type createPaymentIntentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency"`
	CustomerID  string          `json:"customer_id" validate:"required"`
	MethodTypes []string        `json:"payment_method_types"`
	Method      string          `json:"payment_method"`
}

// CreatePaymentIntent handles POST /api/v1/transactions/payment-intents
func (h *TransactionHandler) CreatePaymentIntent(c echo.Context) error {
	var req createPaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	intent, err := h.transactions.CreatePaymentIntent(c.Request().Context(), usecase.PaymentIntentParams{
		Amount:      req.Amount,
		Currency:    req.Currency,
		CustomerID:  req.CustomerID,
		MethodTypes: req.MethodTypes,
		Method:      req.Method,
	})
	if err != nil {
		h.logger.Error("failed to create payment intent",
			zap.String("customer_id", req.CustomerID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, intent)
}

type capturePaymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CapturePaymentIntent handles POST /api/v1/transactions/payment-intents/:id/capture
func (h *TransactionHandler) CapturePaymentIntent(c echo.Context) error {
	var req capturePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	intent, err := h.transactions.CapturePaymentIntent(c.Request().Context(), c.Param("id"), req.Amount)
	if err != nil {
		h.logger.Error("failed to capture payment intent",
			zap.String("payment_intent_id", c.Param("id")),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, intent)
}

// CancelPaymentIntent handles POST /api/v1/transactions/payment-intents/:id/cancel
func (h *TransactionHandler) CancelPaymentIntent(c echo.Context) error {
	intent, err := h.transactions.CancelPaymentIntent(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to cancel payment intent",
			zap.String("payment_intent_id", c.Param("id")),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, intent)
}

// RefundPaymentIntent handles POST /api/v1/transactions/payment-intents/:id/refund
func (h *TransactionHandler) RefundPaymentIntent(c echo.Context) error {
	refund, err := h.transactions.RefundPaymentIntent(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to refund payment intent",
			zap.String("payment_intent_id", c.Param("id")),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, refund)
}

// GetCustomerSources handles GET /api/v1/transactions/sources
func (h *TransactionHandler) GetCustomerSources(c echo.Context) error {
	params := gateway.SourceListParams{
		CustomerID:    c.QueryParam("customer_id"),
		StartingAfter: c.QueryParam("starting_after"),
		EndingBefore:  c.QueryParam("ending_before"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		params.Limit = limit
	}

	page, err := h.transactions.GetCustomerSources(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("failed to list customer sources",
			zap.String("customer_id", params.CustomerID),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, page)
}
