package model

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the columns of the user service's table that this service
// reads and the single flag it writes.
type User struct {
	ID                 uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Email              string    `gorm:"size:255" json:"email"`
	Phone              string    `gorm:"size:32" json:"phone"`
	IsGatewayConnected bool      `gorm:"column:is_gateway_connected;not null;default:false" json:"is_gateway_connected"`
	CreatedAt          time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
