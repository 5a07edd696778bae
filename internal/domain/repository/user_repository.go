package repository

import (
	"context"

	"github.com/appcrates/payment-service/internal/domain/entity"
)

// UserRepository is the narrow port to the user collaborator. Everything
// beyond these three operations is owned by the user service.
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*entity.User, error)

	// SetGatewayConnected flips the user's gateway-connected flag. The
	// call is idempotent; setting an already-set flag is not an error.
	SetGatewayConnected(ctx context.Context, userID string, connected bool) error

	// List returns one page of users, used by bulk customer provisioning.
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}
