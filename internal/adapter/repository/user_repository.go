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

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) modelToEntity(m *model.User) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:                 m.ID.String(),
		Email:              m.Email,
		Phone:              m.Phone,
		IsGatewayConnected: m.IsGatewayConnected,
	}
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*entity.User, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.db.WithContext(ctx).Where("id = ?", userUUID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}
	return r.modelToEntity(&user), nil
}

func (r *userRepository) SetGatewayConnected(ctx context.Context, userID string, connected bool) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userUUID).
		Update("is_gateway_connected", connected)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := make([]entity.User, len(users))
	for i := range users {
		result[i] = *r.modelToEntity(&users[i])
	}
	return result, nil
}
