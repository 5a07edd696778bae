package database

import (
	"gorm.io/gorm"

	"github.com/appcrates/payment-service/internal/adapter/repository"
	domainRepo "github.com/appcrates/payment-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	PaymentAccount domainRepo.PaymentAccountRepository
	User           domainRepo.UserRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PaymentAccount: repository.NewPaymentAccountRepository(db),
		User:           repository.NewUserRepository(db),
	}
}
