package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainErrors "github.com/appcrates/payment-service/internal/domain/errors"
	"github.com/appcrates/payment-service/internal/domain/gateway"
	"github.com/appcrates/payment-service/internal/domain/repository"
)

const defaultCurrency = "usd"

// TransactionService executes money-movement operations against the
// gateway. It resolves transfer destinations from the linkage store but
// never provisions remote resources itself, and it performs no local
// validation of the gateway-owned payment-intent state machine: commands
// issued in an invalid state come back as gateway InvalidRequest errors.
type TransactionService struct {
	gateway  gateway.Client
	accounts repository.PaymentAccountRepository
	logger   *zap.Logger
}

func NewTransactionService(
	gatewayClient gateway.Client,
	accounts repository.PaymentAccountRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		gateway:  gatewayClient,
		accounts: accounts,
		logger:   logger,
	}
}

// ChargeParams describes a direct charge. Currency defaults to usd.
type ChargeParams struct {
	CustomerID  string
	Amount      decimal.Decimal
	Currency    string
	SourceToken string
	Description string
}

func (p ChargeParams) withDefaults() ChargeParams {
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	return p
}

func (s *TransactionService) CreateCharge(ctx context.Context, params ChargeParams) (*gateway.Charge, error) {
	if params.CustomerID == "" {
		return nil, domainErrors.NewValidationError("customer id", "must not be empty")
	}
	params = params.withDefaults()

	return s.gateway.CreateCharge(ctx, gateway.ChargeParams{
		CustomerID:  params.CustomerID,
		Amount:      params.Amount,
		Currency:    params.Currency,
		SourceToken: params.SourceToken,
		Description: params.Description,
	})
}

func (s *TransactionService) CreateRefund(ctx context.Context, chargeID string) (*gateway.Refund, error) {
	if chargeID == "" {
		return nil, domainErrors.NewValidationError("charge id", "must not be empty")
	}
	return s.gateway.CreateRefund(ctx, chargeID)
}

// TransferParams describes a transfer to a user's connected account.
// Currency defaults to usd.
type TransferParams struct {
	UserID      string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

func (p TransferParams) withDefaults() TransferParams {
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	return p
}

// CreateTransfer resolves the destination from the user's PaymentAccount.
// A user without a linkage fails with ErrAccountNotFound before any remote
// call; transfers never auto-provision a destination.
func (s *TransactionService) CreateTransfer(ctx context.Context, params TransferParams) (*gateway.Transfer, error) {
	if err := validateUserID(params.UserID); err != nil {
		return nil, err
	}
	params = params.withDefaults()

	account, err := s.accounts.GetByUserID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domainErrors.ErrAccountNotFound
	}

	return s.gateway.CreateTransfer(ctx, gateway.TransferParams{
		DestinationAccountID: account.Account.ResourceID(),
		Amount:               params.Amount,
		Currency:             params.Currency,
		Description:          params.Description,
	})
}

// TopUpParams describes a platform balance top-up. Currency defaults to usd.
type TopUpParams struct {
	Amount              decimal.Decimal
	Currency            string
	Description         string
	StatementDescriptor string
}

func (p TopUpParams) withDefaults() TopUpParams {
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	return p
}

func (s *TransactionService) CreateTopUp(ctx context.Context, params TopUpParams) (*gateway.TopUp, error) {
	params = params.withDefaults()

	return s.gateway.CreateTopUp(ctx, gateway.TopUpParams{
		Amount:              params.Amount,
		Currency:            params.Currency,
		Description:         params.Description,
		StatementDescriptor: params.StatementDescriptor,
	})
}

// PaymentIntentParams describes a payment intent creation request.
// Currency defaults to usd. MethodTypes and Method are optional.
type PaymentIntentParams struct {
	Amount      decimal.Decimal
	Currency    string
	CustomerID  string
	MethodTypes []string
	Method      string
}

func (p PaymentIntentParams) withDefaults() PaymentIntentParams {
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	return p
}

func (s *TransactionService) CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*gateway.PaymentIntent, error) {
	if params.CustomerID == "" {
		return nil, domainErrors.NewValidationError("customer id", "must not be empty")
	}
	params = params.withDefaults()

	return s.gateway.CreatePaymentIntent(ctx, gateway.PaymentIntentParams{
		Amount:      params.Amount,
		Currency:    params.Currency,
		CustomerID:  params.CustomerID,
		MethodTypes: params.MethodTypes,
		Method:      params.Method,
	})
}

func (s *TransactionService) CapturePaymentIntent(ctx context.Context, id string, amount decimal.Decimal) (*gateway.PaymentIntent, error) {
	if id == "" {
		return nil, domainErrors.NewValidationError("payment intent id", "must not be empty")
	}
	return s.gateway.CapturePaymentIntent(ctx, id, amount)
}

func (s *TransactionService) CancelPaymentIntent(ctx context.Context, id string) (*gateway.PaymentIntent, error) {
	if id == "" {
		return nil, domainErrors.NewValidationError("payment intent id", "must not be empty")
	}
	return s.gateway.CancelPaymentIntent(ctx, id)
}

func (s *TransactionService) RefundPaymentIntent(ctx context.Context, id string) (*gateway.Refund, error) {
	if id == "" {
		return nil, domainErrors.NewValidationError("payment intent id", "must not be empty")
	}
	return s.gateway.RefundPaymentIntent(ctx, id)
}

// GetCustomerSources lists the customer's attached payment methods.
// Cursors are forwarded to the gateway verbatim.
func (s *TransactionService) GetCustomerSources(ctx context.Context, params gateway.SourceListParams) (*gateway.SourceList, error) {
	if params.CustomerID == "" {
		return nil, domainErrors.NewValidationError("customer id", "must not be empty")
	}
	return s.gateway.ListPaymentMethods(ctx, params)
}
