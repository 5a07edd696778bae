package repository

import (
	"context"

	"github.com/appcrates/payment-service/internal/domain/entity"
)

// PaymentAccountRepository persists the user-to-gateway-resource linkage.
// Create returns errors.ErrDuplicateAccount when a row for the same user
// already exists; that uniqueness is what makes concurrent get-or-create
// safe without in-process locking.
type PaymentAccountRepository interface {
	Create(ctx context.Context, account *entity.PaymentAccount) (*entity.PaymentAccount, error)
	GetByUserID(ctx context.Context, userID string) (*entity.PaymentAccount, error)
	GetByAccountID(ctx context.Context, accountID string) (*entity.PaymentAccount, error)
	Update(ctx context.Context, account *entity.PaymentAccount) (*entity.PaymentAccount, error)
}
