package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccountBlob stores the provider resource payload as JSONB.
type AccountBlob map[string]any

// Value implements driver.Valuer for GORM.
func (b AccountBlob) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for GORM.
func (b *AccountBlob) Scan(value any) error {
	if value == nil {
		*b = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return errors.New("unsupported type for AccountBlob")
	}
}

// PaymentAccount maps gateway resources to users. The unique index on
// user_id backs the at-most-one-account-per-user invariant; concurrent
// creates for the same user lose with a duplicate-key error instead of
// producing a second row.
type PaymentAccount struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID   `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Type      string      `gorm:"not null;size:32" json:"type"`
	Account   AccountBlob `gorm:"type:jsonb;not null" json:"account"`
	CreatedAt time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time   `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentAccount) TableName() string {
	return "payment_accounts"
}
