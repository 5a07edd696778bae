package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/appcrates/payment-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.PaymentAccount{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM cannot express through tags.
func createCustomIndexes(db *gorm.DB) error {
	// Webhook handlers and transfer resolution look accounts up by the
	// provider resource id stored inside the jsonb blob.
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_payment_accounts_resource_id ON payment_accounts ((account->>'id'))`).Error
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}
