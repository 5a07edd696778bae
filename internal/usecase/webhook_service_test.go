package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/domain/entity"
	domainErrors "github.com/appcrates/payment-service/internal/domain/errors"
	"github.com/appcrates/payment-service/internal/domain/gateway"
)

func newWebhookService(gatewayMock *MockGatewayClient, accounts *MockPaymentAccountRepository, users *MockUserRepository) *WebhookService {
	return NewWebhookService(gatewayMock, accounts, users, zap.NewNop())
}

func TestWebhookService_ProcessWebhook(t *testing.T) {
	rawBody := []byte(`{"id":"evt_1"}`)
	const signature = "t=1,v1=abc"

	externalAccountEvent := &gateway.Event{
		ID:      "evt_1",
		Type:    eventExternalAccountCreated,
		Account: "acct_x",
	}

	linked := &entity.PaymentAccount{
		UserID:  testUserID,
		Type:    entity.AccountTypeConnectedAccount,
		Account: entity.AccountData{"id": "acct_x"},
	}

	tests := []struct {
		name          string
		mockSetup     func(*MockGatewayClient, *MockPaymentAccountRepository, *MockUserRepository)
		expectedError bool
		checkAck      func(*testing.T, *WebhookAck)
	}{
		{
			name: "tampered signature rejected without touching state",
			mockSetup: func(gw *MockGatewayClient, accounts *MockPaymentAccountRepository, users *MockUserRepository) {
				gw.On("ConstructWebhookEvent", rawBody, signature).
					Return(nil, &domainErrors.SignatureError{Err: errors.New("signature mismatch")})
			},
			expectedError: true,
		},
		{
			name: "external account created flips user flag",
			mockSetup: func(gw *MockGatewayClient, accounts *MockPaymentAccountRepository, users *MockUserRepository) {
				gw.On("ConstructWebhookEvent", rawBody, signature).Return(externalAccountEvent, nil)
				accounts.On("GetByAccountID", mock.Anything, "acct_x").Return(linked, nil)
				users.On("SetGatewayConnected", mock.Anything, testUserID, true).Return(nil)
			},
			checkAck: func(t *testing.T, ack *WebhookAck) {
				assert.Equal(t, "Done", ack.Message)
				assert.Equal(t, externalAccountEvent, ack.Event)
			},
		},
		{
			name: "unknown linked account is acknowledged as no-op",
			mockSetup: func(gw *MockGatewayClient, accounts *MockPaymentAccountRepository, users *MockUserRepository) {
				gw.On("ConstructWebhookEvent", rawBody, signature).Return(externalAccountEvent, nil)
				accounts.On("GetByAccountID", mock.Anything, "acct_x").Return(nil, nil)
			},
			checkAck: func(t *testing.T, ack *WebhookAck) {
				assert.Equal(t, "Done", ack.Message)
			},
		},
		{
			name: "unrecognized event type acknowledged without mutation",
			mockSetup: func(gw *MockGatewayClient, accounts *MockPaymentAccountRepository, users *MockUserRepository) {
				gw.On("ConstructWebhookEvent", rawBody, signature).Return(&gateway.Event{
					ID:   "evt_2",
					Type: "invoice.payment_succeeded",
				}, nil)
			},
			checkAck: func(t *testing.T, ack *WebhookAck) {
				assert.Equal(t, "Done", ack.Message)
				assert.Equal(t, "invoice.payment_succeeded", ack.Event.Type)
			},
		},
		{
			name: "store failure propagates so the gateway redelivers",
			mockSetup: func(gw *MockGatewayClient, accounts *MockPaymentAccountRepository, users *MockUserRepository) {
				gw.On("ConstructWebhookEvent", rawBody, signature).Return(externalAccountEvent, nil)
				accounts.On("GetByAccountID", mock.Anything, "acct_x").
					Return(nil, errors.New("connection reset"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gatewayMock := new(MockGatewayClient)
			accounts := new(MockPaymentAccountRepository)
			users := new(MockUserRepository)
			tt.mockSetup(gatewayMock, accounts, users)

			service := newWebhookService(gatewayMock, accounts, users)

			ack, err := service.ProcessWebhook(context.Background(), rawBody, signature)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, ack)
			} else {
				assert.NoError(t, err)
				if tt.checkAck != nil {
					tt.checkAck(t, ack)
				}
			}

			gatewayMock.AssertExpectations(t)
			accounts.AssertExpectations(t)
			users.AssertExpectations(t)

			if tt.expectedError {
				users.AssertNotCalled(t, "SetGatewayConnected", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestWebhookService_RedeliveryIsIdempotent(t *testing.T) {
	rawBody := []byte(`{"id":"evt_1"}`)
	const signature = "t=1,v1=abc"

	event := &gateway.Event{
		ID:      "evt_1",
		Type:    eventExternalAccountCreated,
		Account: "acct_x",
	}
	linked := &entity.PaymentAccount{
		UserID:  testUserID,
		Account: entity.AccountData{"id": "acct_x"},
	}

	gatewayMock := new(MockGatewayClient)
	accounts := new(MockPaymentAccountRepository)
	users := new(MockUserRepository)
	gatewayMock.On("ConstructWebhookEvent", rawBody, signature).Return(event, nil)
	accounts.On("GetByAccountID", mock.Anything, "acct_x").Return(linked, nil)
	users.On("SetGatewayConnected", mock.Anything, testUserID, true).Return(nil)

	service := newWebhookService(gatewayMock, accounts, users)

	for i := 0; i < 2; i++ {
		ack, err := service.ProcessWebhook(context.Background(), rawBody, signature)
		assert.NoError(t, err)
		assert.Equal(t, "Done", ack.Message)
	}

	// Setting an already-set flag twice is harmless; both deliveries ack.
	users.AssertNumberOfCalls(t, "SetGatewayConnected", 2)
}
