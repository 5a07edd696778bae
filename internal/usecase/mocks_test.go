package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/appcrates/payment-service/internal/domain/entity"
	"github.com/appcrates/payment-service/internal/domain/gateway"
)

// MockGatewayClient is a mock implementation of gateway.Client
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateCustomer(ctx context.Context, params gateway.CustomerParams) (entity.AccountData, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.AccountData), args.Error(1)
}

func (m *MockGatewayClient) DeleteCustomer(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockGatewayClient) ListCustomers(ctx context.Context, limit int64) ([]entity.AccountData, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AccountData), args.Error(1)
}

func (m *MockGatewayClient) CreateConnectedAccount(ctx context.Context, params gateway.ConnectedAccountParams) (entity.AccountData, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.AccountData), args.Error(1)
}

func (m *MockGatewayClient) CreateOnboardingLink(ctx context.Context, params gateway.OnboardingLinkParams) (*gateway.AccountLink, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.AccountLink), args.Error(1)
}

func (m *MockGatewayClient) AttachSource(ctx context.Context, customerID, sourceToken string) (entity.AccountData, error) {
	args := m.Called(ctx, customerID, sourceToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.AccountData), args.Error(1)
}

func (m *MockGatewayClient) ListPaymentMethods(ctx context.Context, params gateway.SourceListParams) (*gateway.SourceList, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.SourceList), args.Error(1)
}

func (m *MockGatewayClient) CreateCharge(ctx context.Context, params gateway.ChargeParams) (*gateway.Charge, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Charge), args.Error(1)
}

func (m *MockGatewayClient) CreateRefund(ctx context.Context, chargeID string) (*gateway.Refund, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Refund), args.Error(1)
}

func (m *MockGatewayClient) CreateTransfer(ctx context.Context, params gateway.TransferParams) (*gateway.Transfer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Transfer), args.Error(1)
}

func (m *MockGatewayClient) CreateTopUp(ctx context.Context, params gateway.TopUpParams) (*gateway.TopUp, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.TopUp), args.Error(1)
}

func (m *MockGatewayClient) CreatePaymentIntent(ctx context.Context, params gateway.PaymentIntentParams) (*gateway.PaymentIntent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentIntent), args.Error(1)
}

func (m *MockGatewayClient) CapturePaymentIntent(ctx context.Context, id string, amount decimal.Decimal) (*gateway.PaymentIntent, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentIntent), args.Error(1)
}

func (m *MockGatewayClient) CancelPaymentIntent(ctx context.Context, id string) (*gateway.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentIntent), args.Error(1)
}

func (m *MockGatewayClient) RefundPaymentIntent(ctx context.Context, id string) (*gateway.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Refund), args.Error(1)
}

func (m *MockGatewayClient) ConstructWebhookEvent(rawBody []byte, signatureHeader string) (*gateway.Event, error) {
	args := m.Called(rawBody, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Event), args.Error(1)
}

// MockPaymentAccountRepository is a mock implementation of repository.PaymentAccountRepository
type MockPaymentAccountRepository struct {
	mock.Mock
}

func (m *MockPaymentAccountRepository) Create(ctx context.Context, account *entity.PaymentAccount) (*entity.PaymentAccount, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) GetByUserID(ctx context.Context, userID string) (*entity.PaymentAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.PaymentAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) Update(ctx context.Context, account *entity.PaymentAccount) (*entity.PaymentAccount, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAccount), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetGatewayConnected(ctx context.Context, userID string, connected bool) error {
	args := m.Called(ctx, userID, connected)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}
