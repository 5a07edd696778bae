package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/appcrates/payment-service/internal/domain/entity"
)

// Client is the port to the external payment gateway. Implementations are
// stateless facades: one typed operation per remote capability, errors
// classified into domain GatewayError kinds, no retries.
//
// Monetary amounts cross this port in major currency units; conversion to
// the gateway's integer minor-unit representation happens inside the
// adapter and nowhere else.
type Client interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (entity.AccountData, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	ListCustomers(ctx context.Context, limit int64) ([]entity.AccountData, error)

	CreateConnectedAccount(ctx context.Context, params ConnectedAccountParams) (entity.AccountData, error)
	CreateOnboardingLink(ctx context.Context, params OnboardingLinkParams) (*AccountLink, error)

	AttachSource(ctx context.Context, customerID, sourceToken string) (entity.AccountData, error)
	ListPaymentMethods(ctx context.Context, params SourceListParams) (*SourceList, error)

	CreateCharge(ctx context.Context, params ChargeParams) (*Charge, error)
	CreateRefund(ctx context.Context, chargeID string) (*Refund, error)
	CreateTransfer(ctx context.Context, params TransferParams) (*Transfer, error)
	CreateTopUp(ctx context.Context, params TopUpParams) (*TopUp, error)

	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, id string, amount decimal.Decimal) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	RefundPaymentIntent(ctx context.Context, id string) (*Refund, error)

	// ConstructWebhookEvent verifies the signature over the raw, unmodified
	// body bytes and returns the typed event. Verification failures come
	// back as *errors.SignatureError.
	ConstructWebhookEvent(rawBody []byte, signatureHeader string) (*Event, error)
}

// CustomerParams describes a customer creation request.
type CustomerParams struct {
	Email string
	Phone string

	// IdempotencyKey, when set, is forwarded to the gateway so client-side
	// retries cannot create duplicate remote resources.
	IdempotencyKey string
}

// ConnectedAccountParams describes a connected-account creation request.
type ConnectedAccountParams struct {
	Email string

	// Kind is the connected-account flavor ("express" or "custom").
	Kind string

	IdempotencyKey string
}

// OnboardingLinkParams describes an account-onboarding link request.
type OnboardingLinkParams struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
}

// AccountLink is a single-use onboarding URL for a connected account.
type AccountLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// ChargeParams describes a direct charge against a customer.
type ChargeParams struct {
	CustomerID  string
	Amount      decimal.Decimal
	Currency    string
	SourceToken string
	Description string
}

// Charge is the gateway's view of a created charge. Amount is in minor units.
type Charge struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Refund is the gateway's view of a created refund.
type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TransferParams describes a transfer to a connected account.
type TransferParams struct {
	DestinationAccountID string
	Amount               decimal.Decimal
	Currency             string
	Description          string
}

// Transfer is the gateway's view of a created transfer. Amount is in minor units.
type Transfer struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	DestinationID string `json:"destination"`
}

// TopUpParams describes a platform balance top-up.
type TopUpParams struct {
	Amount              decimal.Decimal
	Currency            string
	Description         string
	StatementDescriptor string
}

// TopUp is the gateway's view of a created top-up. Amount is in minor units.
type TopUp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// PaymentIntentParams describes a payment intent creation request.
type PaymentIntentParams struct {
	Amount     decimal.Decimal
	Currency   string
	CustomerID string

	// MethodTypes restricts the accepted payment method types when set.
	MethodTypes []string

	// Method pre-attaches an existing payment method when set.
	Method string
}

// PaymentIntent is the gateway's view of a payment intent. The intent's
// state machine (requires_payment_method through succeeded/canceled) is
// owned by the gateway; Status is reported as-is.
type PaymentIntent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// SourceListParams describes a paginated payment-method listing. Cursors
// are opaque; ordering is defined by the gateway.
type SourceListParams struct {
	CustomerID    string
	Limit         int64
	StartingAfter string
	EndingBefore  string
}

// SourceList is one page of a customer's attached payment methods.
type SourceList struct {
	Data    []entity.AccountData `json:"data"`
	HasMore bool                 `json:"has_more"`
}

// Event is a verified webhook event.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Account is the connected-account id the event originates from, when
	// the event was delivered on behalf of a connected account.
	Account string `json:"account,omitempty"`

	Data    map[string]any `json:"data"`
	Created int64          `json:"created"`
}
