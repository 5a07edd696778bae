package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/appcrates/payment-service/internal/domain/entity"
	domainErrors "github.com/appcrates/payment-service/internal/domain/errors"
	"github.com/appcrates/payment-service/internal/domain/gateway"
	"github.com/appcrates/payment-service/internal/domain/repository"
)

const (
	opCustomer         = "customer"
	opConnectedAccount = "connected-account"

	defaultOnboardingRefreshURL = "https://app.page.link/stripefailed"
	defaultOnboardingReturnURL  = "https://app.page.link/stripesuccess"

	provisionPageSize = 100
)

// AccountLinker orchestrates the idempotent linkage between local users and
// gateway-owned resources. All lookups go through the store first; a remote
// resource is only ever created when no linkage exists yet.
type AccountLinker struct {
	gateway  gateway.Client
	accounts repository.PaymentAccountRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewAccountLinker(
	gatewayClient gateway.Client,
	accounts repository.PaymentAccountRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *AccountLinker {
	return &AccountLinker{
		gateway:  gatewayClient,
		accounts: accounts,
		users:    users,
		logger:   logger,
	}
}

// idempotencyKey derives a deterministic key from the user id and the
// operation kind, so a client-side retry of a create cannot mint a second
// remote resource.
func idempotencyKey(userID, operation string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("payment-account/"+operation+"/"+userID)).String()
}

func validateUserID(userID string) error {
	if userID == "" {
		return domainErrors.NewValidationError("user id", "must not be empty")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return domainErrors.NewValidationError("user id", "must be a valid UUID")
	}
	return nil
}

// GetOrCreateCustomer returns the user's existing PaymentAccount of any
// type, or creates a gateway customer and persists a CUSTOMER linkage.
func (l *AccountLinker) GetOrCreateCustomer(ctx context.Context, userID, email, phone string) (*entity.PaymentAccount, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	existing, err := l.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	customer, err := l.gateway.CreateCustomer(ctx, gateway.CustomerParams{
		Email:          email,
		Phone:          phone,
		IdempotencyKey: idempotencyKey(userID, opCustomer),
	})
	if err != nil {
		return nil, err
	}

	return l.persistNewAccount(ctx, userID, entity.AccountTypeCustomer, customer)
}

// GetOrCreateConnectedAccount returns the user's existing PaymentAccount of
// any type, or creates an express connected account with card-payment and
// transfer capabilities and persists a CONNECTED_ACCOUNT linkage.
func (l *AccountLinker) GetOrCreateConnectedAccount(ctx context.Context, userID, email string) (*entity.PaymentAccount, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	existing, err := l.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	account, err := l.gateway.CreateConnectedAccount(ctx, gateway.ConnectedAccountParams{
		Email:          email,
		IdempotencyKey: idempotencyKey(userID, opConnectedAccount),
	})
	if err != nil {
		return nil, err
	}

	return l.persistNewAccount(ctx, userID, entity.AccountTypeConnectedAccount, account)
}

// persistNewAccount stores a freshly created remote resource. A concurrent
// first-time call may have won the race; the unique index rejects this
// create and the stored winner is returned instead of an error. The remote
// resource created by the loser is orphaned, matching the documented
// inconsistency window; it is reported in the log, not to the caller.
func (l *AccountLinker) persistNewAccount(ctx context.Context, userID string, accountType entity.AccountType, data entity.AccountData) (*entity.PaymentAccount, error) {
	created, err := l.accounts.Create(ctx, &entity.PaymentAccount{
		UserID:  userID,
		Type:    accountType,
		Account: data,
	})
	if err == nil {
		l.logger.Info("linked gateway resource to user",
			zap.String("user_id", userID),
			zap.String("type", string(accountType)),
			zap.String("resource_id", data.ResourceID()))
		return created, nil
	}

	if errors.Is(err, domainErrors.ErrDuplicateAccount) {
		l.logger.Warn("lost payment account creation race, reusing winner",
			zap.String("user_id", userID),
			zap.String("orphaned_resource_id", data.ResourceID()))

		winner, lookupErr := l.accounts.GetByUserID(ctx, userID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if winner == nil {
			return nil, domainErrors.ErrAccountNotFound
		}
		return winner, nil
	}

	return nil, fmt.Errorf("persisting payment account for remote resource %s: %w", data.ResourceID(), err)
}

// AttachSourceParams carries a source attachment request. Email and Phone
// are only used when a customer has to be created first.
type AttachSourceParams struct {
	UserID         string
	SourceToken    string
	CardHolderName string
	Email          string
	Phone          string
}

// AttachSource attaches a tokenized payment instrument to the user's
// gateway resource, creating a customer first when no linkage exists. An
// existing linkage of either type is used as the holder. The returned card
// summary and the locally supplied cardholder name are merged into the
// stored blob without discarding prior state.
func (l *AccountLinker) AttachSource(ctx context.Context, params AttachSourceParams) (*entity.PaymentAccount, error) {
	if err := validateUserID(params.UserID); err != nil {
		return nil, err
	}
	if params.SourceToken == "" {
		return nil, domainErrors.NewValidationError("source token", "must not be empty")
	}

	existing, err := l.accounts.GetByUserID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	var holder entity.AccountData
	holderType := entity.AccountTypeCustomer
	if existing != nil {
		holder = existing.Account
		holderType = existing.Type
	} else {
		holder, err = l.gateway.CreateCustomer(ctx, gateway.CustomerParams{
			Email:          params.Email,
			Phone:          params.Phone,
			IdempotencyKey: idempotencyKey(params.UserID, opCustomer),
		})
		if err != nil {
			return nil, err
		}
	}

	card, err := l.gateway.AttachSource(ctx, holder.ResourceID(), params.SourceToken)
	if err != nil {
		return nil, err
	}

	update := entity.AccountData{"card": map[string]any(card)}
	overrides := entity.AccountData{}
	if params.CardHolderName != "" {
		overrides["cardHolderName"] = params.CardHolderName
	}

	if existing != nil {
		existing.Account = entity.MergeAccount(existing.Account, update, overrides)
		return l.accounts.Update(ctx, existing)
	}

	return l.persistNewAccount(ctx, params.UserID, holderType, entity.MergeAccount(holder, update, overrides))
}

// OnboardingLinkParams carries an onboarding link request. AccountID is
// optional; when empty the user's linked (or newly created) connected
// account is used. Empty URLs fall back to the app deep links.
type OnboardingLinkParams struct {
	UserID     string
	AccountID  string
	RefreshURL string
	ReturnURL  string
	Email      string
}

func (p OnboardingLinkParams) withDefaults() OnboardingLinkParams {
	if p.RefreshURL == "" {
		p.RefreshURL = defaultOnboardingRefreshURL
	}
	if p.ReturnURL == "" {
		p.ReturnURL = defaultOnboardingReturnURL
	}
	return p
}

// CreateOnboardingLink creates a single-use connected-account onboarding
// link, provisioning the connected account first when the user has none.
func (l *AccountLinker) CreateOnboardingLink(ctx context.Context, params OnboardingLinkParams) (*gateway.AccountLink, error) {
	params = params.withDefaults()

	accountID := params.AccountID
	if accountID == "" {
		account, err := l.GetOrCreateConnectedAccount(ctx, params.UserID, params.Email)
		if err != nil {
			return nil, err
		}
		accountID = account.Account.ResourceID()
	}

	return l.gateway.CreateOnboardingLink(ctx, gateway.OnboardingLinkParams{
		AccountID:  accountID,
		RefreshURL: params.RefreshURL,
		ReturnURL:  params.ReturnURL,
	})
}

// ProvisionAllCustomers walks the user store and ensures every user has a
// gateway customer. Per-user failures are logged and skipped so one bad
// record does not abort the bulk run. Returns the number of users visited.
func (l *AccountLinker) ProvisionAllCustomers(ctx context.Context) (int, error) {
	visited := 0
	for offset := 0; ; offset += provisionPageSize {
		users, err := l.users.List(ctx, provisionPageSize, offset)
		if err != nil {
			return visited, err
		}
		if len(users) == 0 {
			return visited, nil
		}

		for _, user := range users {
			visited++
			if _, err := l.GetOrCreateCustomer(ctx, user.ID, user.Email, user.Phone); err != nil {
				l.logger.Error("failed to provision customer for user",
					zap.String("user_id", user.ID),
					zap.Error(err))
			}
		}
	}
}

// RemoveAllCustomers deletes up to limit gateway customers. This is an
// administrative teardown; per-customer failures are logged and skipped.
// Returns the number of customers deleted.
func (l *AccountLinker) RemoveAllCustomers(ctx context.Context, limit int64) (int, error) {
	customers, err := l.gateway.ListCustomers(ctx, limit)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, customer := range customers {
		customerID := customer.ResourceID()
		if err := l.gateway.DeleteCustomer(ctx, customerID); err != nil {
			l.logger.Error("failed to delete gateway customer",
				zap.String("customer_id", customerID),
				zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, nil
}
