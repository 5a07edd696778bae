package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/domain/gateway"
	"github.com/appcrates/payment-service/internal/domain/repository"
)

const eventExternalAccountCreated = "account.external_account.created"

// WebhookAck is returned to the gateway for every verified event so it
// does not redeliver.
type WebhookAck struct {
	Message string         `json:"message"`
	Event   *gateway.Event `json:"event"`
}

// WebhookService ingests asynchronous gateway deliveries. Verification
// happens before any state is read or written; unrecognized event types
// are acknowledged untouched so redelivery cannot loop.
type WebhookService struct {
	gateway  gateway.Client
	accounts repository.PaymentAccountRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewWebhookService(
	gatewayClient gateway.Client,
	accounts repository.PaymentAccountRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		gateway:  gatewayClient,
		accounts: accounts,
		users:    users,
		logger:   logger,
	}
}

// ProcessWebhook verifies the delivery against the raw body bytes and
// dispatches by event type.
func (s *WebhookService) ProcessWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*WebhookAck, error) {
	event, err := s.gateway.ConstructWebhookEvent(rawBody, signatureHeader)
	if err != nil {
		return nil, err
	}

	s.logger.Info("webhook event received",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type))

	switch event.Type {
	case eventExternalAccountCreated:
		if err := s.handleExternalAccountCreated(ctx, event); err != nil {
			// Store failures are returned so the gateway redelivers;
			// the handler is idempotent.
			return nil, err
		}
	default:
		s.logger.Debug("ignoring unhandled event type",
			zap.String("type", event.Type))
	}

	return &WebhookAck{Message: "Done", Event: event}, nil
}

// handleExternalAccountCreated flips the linked user's gateway-connected
// flag. The event may arrive before the local linkage is persisted; a
// missing PaymentAccount is a no-op, not an error, so the delivery is
// acknowledged and the flag is picked up on a later linkage path.
func (s *WebhookService) handleExternalAccountCreated(ctx context.Context, event *gateway.Event) error {
	if event.Account == "" {
		s.logger.Warn("external account event without account id",
			zap.String("event_id", event.ID))
		return nil
	}

	account, err := s.accounts.GetByAccountID(ctx, event.Account)
	if err != nil {
		return err
	}
	if account == nil {
		s.logger.Info("no payment account linked to event, skipping",
			zap.String("gateway_account_id", event.Account))
		return nil
	}

	if err := s.users.SetGatewayConnected(ctx, account.UserID, true); err != nil {
		return err
	}

	s.logger.Info("marked user as gateway connected",
		zap.String("user_id", account.UserID),
		zap.String("gateway_account_id", event.Account))
	return nil
}
