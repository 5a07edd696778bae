package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/appcrates/payment-service/internal/domain/entity"
	domainErrors "github.com/appcrates/payment-service/internal/domain/errors"
	"github.com/appcrates/payment-service/internal/domain/model"
	"github.com/appcrates/payment-service/internal/domain/repository"
)

type paymentAccountRepository struct {
	db *gorm.DB
}

func NewPaymentAccountRepository(db *gorm.DB) repository.PaymentAccountRepository {
	return &paymentAccountRepository{
		db: db,
	}
}

// modelToEntity converts a model.PaymentAccount to entity.PaymentAccount
func (r *paymentAccountRepository) modelToEntity(m *model.PaymentAccount) *entity.PaymentAccount {
	if m == nil {
		return nil
	}
	return &entity.PaymentAccount{
		ID:        m.ID,
		UserID:    m.UserID.String(),
		Type:      entity.AccountType(m.Type),
		Account:   entity.AccountData(m.Account),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// entityToModel converts an entity.PaymentAccount to model.PaymentAccount
func (r *paymentAccountRepository) entityToModel(e *entity.PaymentAccount) (*model.PaymentAccount, error) {
	if e == nil {
		return nil, nil
	}

	userUUID, err := uuid.Parse(e.UserID)
	if err != nil {
		return nil, err
	}

	return &model.PaymentAccount{
		ID:        e.ID,
		UserID:    userUUID,
		Type:      string(e.Type),
		Account:   model.AccountBlob(e.Account),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}, nil
}

func (r *paymentAccountRepository) Create(ctx context.Context, account *entity.PaymentAccount) (*entity.PaymentAccount, error) {
	modelAccount, err := r.entityToModel(account)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(modelAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainErrors.ErrDuplicateAccount
		}
		return nil, err
	}
	return r.modelToEntity(modelAccount), nil
}

func (r *paymentAccountRepository) GetByUserID(ctx context.Context, userID string) (*entity.PaymentAccount, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var account model.PaymentAccount
	err = r.db.WithContext(ctx).Where("user_id = ?", userUUID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&account), nil
}

func (r *paymentAccountRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.PaymentAccount, error) {
	var account model.PaymentAccount
	err := r.db.WithContext(ctx).Where("account->>'id' = ?", accountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&account), nil
}

func (r *paymentAccountRepository) Update(ctx context.Context, account *entity.PaymentAccount) (*entity.PaymentAccount, error) {
	modelAccount, err := r.entityToModel(account)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(modelAccount).Error; err != nil {
		return nil, err
	}
	return r.modelToEntity(modelAccount), nil
}
