package entity

import "time"

// AccountType identifies which remote API family owns the linked resource.
type AccountType string

const (
	AccountTypeCustomer         AccountType = "CUSTOMER"
	AccountTypeConnectedAccount AccountType = "CONNECTED_ACCOUNT"
)

// AccountData is the provider resource blob stored alongside the linkage.
// It always carries at least "id"; all other keys are provider-specific and
// must survive partial refreshes (see MergeAccount).
type AccountData map[string]any

// ResourceID returns the remote resource id stored in the blob.
func (d AccountData) ResourceID() string {
	id, _ := d["id"].(string)
	return id
}

// PaymentAccount links a local user to a gateway-owned resource.
// At most one PaymentAccount exists per user; the store enforces this
// with a unique index on user_id.
type PaymentAccount struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user"`
	Type      AccountType `json:"type"`
	Account   AccountData `json:"account"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
