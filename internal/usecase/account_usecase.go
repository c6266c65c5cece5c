package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle. Accounts are created once and
// never deleted; every later change goes through the settlement engine.
type AccountUseCase struct {
	accountRepo AccountRepository
	signer      Signer
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, signer Signer, metrics *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		signer:      signer,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UID         int64
	UIN         string
	Name        string
	Symbol      domain.Symbol
	Currency    string
	LedgerType  int
	BalanceType domain.BalanceType
	IP          string
	Memo        string
}

// CreateAccount inserts a new account with zero balance and hold. The
// creation signature is computed over those zeroes.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		UID:         input.UID,
		UIN:         input.UIN,
		Name:        input.Name,
		Symbol:      input.Symbol,
		Currency:    input.Currency,
		LedgerType:  input.LedgerType,
		BalanceType: input.BalanceType,
		Balance:     decimal.Zero,
		Hold:        decimal.Zero,
		Transit:     decimal.Zero,
		IP:          input.IP,
		Memo:        input.Memo,
		CreatedAt:   now,
		ModifiedAt:  now,
		BalanceAt:   now,
		Timestamp:   now.Unix(),
		TimestampUs: int32(now.Nanosecond() / 1000),
	}

	account.Signature = uc.signer.Digest(account.SignPayload())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account and verifies its signature, surfacing any
// external modification as tamper-detected.
func (uc *AccountUseCase) GetAccount(ctx context.Context, uid int64) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if account.Signature != uc.signer.Digest(account.SignPayload()) {
		return nil, fmt.Errorf("account %s: %w", account.UIN, domain.ErrTamperDetected)
	}

	return account, nil
}
