package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/domain/entity"
	domainErrors "github.com/appcrates/payment-service/internal/domain/errors"
	"github.com/appcrates/payment-service/internal/domain/gateway"
)

const defaultConnectedAccountKind = "express"

// Provider implements the gateway.Client port on top of the Stripe API.
// It holds no business logic: typed operations, error classification and
// the single major-to-minor currency unit conversion.
type Provider struct {
	secretKey     string
	webhookSecret string
	logger        *zap.Logger

	initOnce sync.Once
	api      *client.API
}

// NewProvider creates a new Stripe provider. Empty secrets are allowed
// here; they surface as a ConfigError on the first call that needs them.
func NewProvider(secretKey, webhookSecret string, logger *zap.Logger) *Provider {
	return &Provider{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (p *Provider) client() (*client.API, error) {
	if p.secretKey == "" {
		return nil, &domainErrors.ConfigError{Setting: "stripe secret key"}
	}
	p.initOnce.Do(func() {
		api := &client.API{}
		api.Init(p.secretKey, nil)
		p.api = api
	})
	return p.api, nil
}

// MinorUnits converts a major-unit amount to the gateway's integer
// minor-unit representation (12.50 -> 1250), rounding to the nearest unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// classify maps a Stripe failure onto the domain gateway taxonomy.
func classify(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		// Anything that never produced a Stripe error body is a
		// transport-level failure.
		return &domainErrors.GatewayError{
			Kind:    domainErrors.GatewayNetworkError,
			Message: err.Error(),
			Err:     err,
		}
	}

	kind := domainErrors.GatewayUnknown
	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		kind = domainErrors.GatewayDeclined
	case stripeErr.HTTPStatusCode == 401:
		kind = domainErrors.GatewayAuthenticationFailure
	case stripeErr.HTTPStatusCode == 429:
		kind = domainErrors.GatewayRateLimited
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		kind = domainErrors.GatewayInvalidRequest
	}

	return &domainErrors.GatewayError{
		Kind:    kind,
		Code:    string(stripeErr.Code),
		Message: stripeErr.Msg,
		Err:     err,
	}
}

// resourceData extracts the raw resource representation Stripe returned so
// provider-specific fields are stored without this service enumerating them.
func resourceData(lastResponse *stripe.APIResponse, fallback any) (entity.AccountData, error) {
	raw := []byte(nil)
	if lastResponse != nil {
		raw = lastResponse.RawJSON
	}
	if len(raw) == 0 {
		encoded, err := json.Marshal(fallback)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}

	var data entity.AccountData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (p *Provider) CreateCustomer(ctx context.Context, params gateway.CustomerParams) (entity.AccountData, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	customerParams := &stripe.CustomerParams{}
	customerParams.Context = ctx
	if params.Email != "" {
		customerParams.Email = stripe.String(params.Email)
	}
	if params.Phone != "" {
		customerParams.Phone = stripe.String(params.Phone)
	}
	if params.IdempotencyKey != "" {
		customerParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	customer, err := api.Customers.New(customerParams)
	if err != nil {
		return nil, classify(err)
	}

	p.logger.Info("created gateway customer", zap.String("customer_id", customer.ID))
	return resourceData(customer.LastResponse, customer)
}

func (p *Provider) DeleteCustomer(ctx context.Context, customerID string) error {
	api, err := p.client()
	if err != nil {
		return err
	}

	deleteParams := &stripe.CustomerParams{}
	deleteParams.Context = ctx
	if _, err := api.Customers.Del(customerID, deleteParams); err != nil {
		return classify(err)
	}
	return nil
}

func (p *Provider) ListCustomers(ctx context.Context, limit int64) ([]entity.AccountData, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	listParams := &stripe.CustomerListParams{}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(limit)
	listParams.Single = true

	var customers []entity.AccountData
	iter := api.Customers.List(listParams)
	for iter.Next() {
		customer := iter.Customer()
		data, err := resourceData(customer.LastResponse, customer)
		if err != nil {
			return nil, err
		}
		customers = append(customers, data)
	}
	if err := iter.Err(); err != nil {
		return nil, classify(err)
	}
	return customers, nil
}

func (p *Provider) CreateConnectedAccount(ctx context.Context, params gateway.ConnectedAccountParams) (entity.AccountData, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	kind := params.Kind
	if kind == "" {
		kind = defaultConnectedAccountKind
	}

	accountParams := &stripe.AccountParams{
		Type:  stripe.String(kind),
		Email: stripe.String(params.Email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	accountParams.Context = ctx
	if params.IdempotencyKey != "" {
		accountParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	account, err := api.Accounts.New(accountParams)
	if err != nil {
		return nil, classify(err)
	}

	p.logger.Info("created connected account",
		zap.String("account_id", account.ID),
		zap.String("kind", kind))
	return resourceData(account.LastResponse, account)
}

func (p *Provider) CreateOnboardingLink(ctx context.Context, params gateway.OnboardingLinkParams) (*gateway.AccountLink, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(params.AccountID),
		RefreshURL: stripe.String(params.RefreshURL),
		ReturnURL:  stripe.String(params.ReturnURL),
		Type:       stripe.String("account_onboarding"),
	}
	linkParams.Context = ctx

	link, err := api.AccountLinks.New(linkParams)
	if err != nil {
		return nil, classify(err)
	}

	return &gateway.AccountLink{
		URL:       link.URL,
		ExpiresAt: link.ExpiresAt,
	}, nil
}

func (p *Provider) AttachSource(ctx context.Context, customerID, sourceToken string) (entity.AccountData, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	cardParams := &stripe.CardParams{
		Customer: stripe.String(customerID),
		Token:    stripe.String(sourceToken),
	}
	cardParams.Context = ctx

	card, err := api.Cards.New(cardParams)
	if err != nil {
		return nil, classify(err)
	}

	p.logger.Info("attached source to customer",
		zap.String("customer_id", customerID),
		zap.String("card_id", card.ID))
	return resourceData(card.LastResponse, card)
}

func (p *Provider) ListPaymentMethods(ctx context.Context, params gateway.SourceListParams) (*gateway.SourceList, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	listParams := &stripe.PaymentMethodListParams{
		Customer: stripe.String(params.CustomerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	listParams.Context = ctx
	listParams.Single = true
	if params.Limit > 0 {
		listParams.Limit = stripe.Int64(params.Limit)
	}
	if params.StartingAfter != "" {
		listParams.StartingAfter = stripe.String(params.StartingAfter)
	}
	if params.EndingBefore != "" {
		listParams.EndingBefore = stripe.String(params.EndingBefore)
	}

	page := &gateway.SourceList{Data: []entity.AccountData{}}
	iter := api.PaymentMethods.List(listParams)
	for iter.Next() {
		method := iter.PaymentMethod()
		data, err := resourceData(method.LastResponse, method)
		if err != nil {
			return nil, err
		}
		page.Data = append(page.Data, data)
	}
	if err := iter.Err(); err != nil {
		return nil, classify(err)
	}
	page.HasMore = iter.PaymentMethodList().HasMore
	return page, nil
}

func (p *Provider) CreateCharge(ctx context.Context, params gateway.ChargeParams) (*gateway.Charge, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	chargeParams := &stripe.ChargeParams{
		Amount:   stripe.Int64(MinorUnits(params.Amount)),
		Currency: stripe.String(params.Currency),
		Customer: stripe.String(params.CustomerID),
	}
	chargeParams.Context = ctx
	if params.Description != "" {
		chargeParams.Description = stripe.String(params.Description)
	}
	if params.SourceToken != "" {
		if err := chargeParams.SetSource(params.SourceToken); err != nil {
			return nil, classify(err)
		}
	}

	charge, err := api.Charges.New(chargeParams)
	if err != nil {
		return nil, classify(err)
	}

	return &gateway.Charge{
		ID:       charge.ID,
		Status:   string(charge.Status),
		Amount:   charge.Amount,
		Currency: string(charge.Currency),
	}, nil
}

func (p *Provider) CreateRefund(ctx context.Context, chargeID string) (*gateway.Refund, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	refundParams := &stripe.RefundParams{
		Charge: stripe.String(chargeID),
	}
	refundParams.Context = ctx

	refund, err := api.Refunds.New(refundParams)
	if err != nil {
		return nil, classify(err)
	}

	return &gateway.Refund{
		ID:     refund.ID,
		Status: string(refund.Status),
	}, nil
}

func (p *Provider) CreateTransfer(ctx context.Context, params gateway.TransferParams) (*gateway.Transfer, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	transferParams := &stripe.TransferParams{
		Amount:      stripe.Int64(MinorUnits(params.Amount)),
		Currency:    stripe.String(params.Currency),
		Destination: stripe.String(params.DestinationAccountID),
	}
	transferParams.Context = ctx
	if params.Description != "" {
		transferParams.Description = stripe.String(params.Description)
	}

	transfer, err := api.Transfers.New(transferParams)
	if err != nil {
		return nil, classify(err)
	}

	result := &gateway.Transfer{
		ID:       transfer.ID,
		Amount:   transfer.Amount,
		Currency: string(transfer.Currency),
	}
	if transfer.Destination != nil {
		result.DestinationID = transfer.Destination.ID
	}
	return result, nil
}

func (p *Provider) CreateTopUp(ctx context.Context, params gateway.TopUpParams) (*gateway.TopUp, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	topupParams := &stripe.TopupParams{
		Amount:   stripe.Int64(MinorUnits(params.Amount)),
		Currency: stripe.String(params.Currency),
	}
	topupParams.Context = ctx
	if params.Description != "" {
		topupParams.Description = stripe.String(params.Description)
	}
	if params.StatementDescriptor != "" {
		topupParams.StatementDescriptor = stripe.String(params.StatementDescriptor)
	}

	topup, err := api.Topups.New(topupParams)
	if err != nil {
		return nil, classify(err)
	}

	return &gateway.TopUp{
		ID:     topup.ID,
		Status: string(topup.Status),
		Amount: topup.Amount,
	}, nil
}

func (p *Provider) CreatePaymentIntent(ctx context.Context, params gateway.PaymentIntentParams) (*gateway.PaymentIntent, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	intentParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(params.Amount)),
		Currency: stripe.String(params.Currency),
		Customer: stripe.String(params.CustomerID),
		// Retain the payment method for later reuse by the same customer.
		SetupFutureUsage: stripe.String("on_session"),
	}
	intentParams.Context = ctx
	if params.Method != "" {
		intentParams.PaymentMethod = stripe.String(params.Method)
	}
	if len(params.MethodTypes) > 0 {
		intentParams.PaymentMethodTypes = stripe.StringSlice(params.MethodTypes)
	}

	intent, err := api.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, classify(err)
	}
	return paymentIntentResult(intent), nil
}

func (p *Provider) CapturePaymentIntent(ctx context.Context, id string, amount decimal.Decimal) (*gateway.PaymentIntent, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	captureParams := &stripe.PaymentIntentCaptureParams{
		AmountToCapture: stripe.Int64(MinorUnits(amount)),
	}
	captureParams.Context = ctx

	intent, err := api.PaymentIntents.Capture(id, captureParams)
	if err != nil {
		return nil, classify(err)
	}
	return paymentIntentResult(intent), nil
}

func (p *Provider) CancelPaymentIntent(ctx context.Context, id string) (*gateway.PaymentIntent, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	cancelParams := &stripe.PaymentIntentCancelParams{}
	cancelParams.Context = ctx

	intent, err := api.PaymentIntents.Cancel(id, cancelParams)
	if err != nil {
		return nil, classify(err)
	}
	return paymentIntentResult(intent), nil
}

func (p *Provider) RefundPaymentIntent(ctx context.Context, id string) (*gateway.Refund, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	refundParams := &stripe.RefundParams{
		PaymentIntent: stripe.String(id),
	}
	refundParams.Context = ctx

	refund, err := api.Refunds.New(refundParams)
	if err != nil {
		return nil, classify(err)
	}

	return &gateway.Refund{
		ID:     refund.ID,
		Status: string(refund.Status),
	}, nil
}

func (p *Provider) ConstructWebhookEvent(rawBody []byte, signatureHeader string) (*gateway.Event, error) {
	if p.webhookSecret == "" {
		return nil, &domainErrors.ConfigError{Setting: "stripe webhook secret"}
	}

	event, err := webhook.ConstructEventWithOptions(
		rawBody,
		signatureHeader,
		p.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, &domainErrors.SignatureError{Err: err}
	}

	result := &gateway.Event{
		ID:      event.ID,
		Type:    string(event.Type),
		Account: event.Account,
		Created: event.Created,
	}
	if len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &result.Data); err != nil {
			return nil, &domainErrors.SignatureError{Err: err}
		}
	}
	return result, nil
}

func paymentIntentResult(intent *stripe.PaymentIntent) *gateway.PaymentIntent {
	return &gateway.PaymentIntent{
		ID:           intent.ID,
		Status:       string(intent.Status),
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}
}
