package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
)

func newSyncedAccount(balanceType domain.BalanceType, symbol domain.Symbol, balance, hold int64) *domain.Account {
	a := &domain.Account{
		UID:         42,
		UIN:         "9001000042",
		Symbol:      symbol,
		Currency:    "CNY",
		BalanceType: balanceType,
		Balance:     decimal.NewFromInt(balance),
		Hold:        decimal.NewFromInt(hold),
	}
	a.MarkSynced()
	return a
}

func TestAccountDebitMovementByBalanceType(t *testing.T) {
	tests := []struct {
		name        string
		balanceType domain.BalanceType
		debit       bool
		movement    domain.Movement
		balance     int64
	}{
		{"debit on debit-natural grows balance", domain.BalanceTypeDebit, true, domain.MovementIn, 1300},
		{"debit on credit-natural shrinks balance", domain.BalanceTypeCredit, true, domain.MovementOut, 700},
		{"credit on debit-natural shrinks balance", domain.BalanceTypeDebit, false, domain.MovementOut, 700},
		{"credit on credit-natural grows balance", domain.BalanceTypeCredit, false, domain.MovementIn, 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newSyncedAccount(tt.balanceType, domain.SymbolAsset, 1000, 0)
			amount := decimal.NewFromInt(300)

			var (
				mutation *domain.Mutation
				err      error
			)
			if tt.debit {
				mutation, err = a.Debit(amount)
			} else {
				mutation, err = a.Credit(amount)
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mutation.Movement != tt.movement {
				t.Errorf("expected movement %d, got %d", tt.movement, mutation.Movement)
			}
			if !a.Balance.Equal(decimal.NewFromInt(tt.balance)) {
				t.Errorf("expected balance %d, got %s", tt.balance, a.Balance)
			}
			if !mutation.Paid.Equal(amount) {
				t.Errorf("expected paid %s, got %s", amount, mutation.Paid)
			}
		})
	}
}

func TestAccountInsufficientFunds(t *testing.T) {
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolAsset, 100, 50)

	// available is 50, so moving 100 out must fail
	if _, err := a.Credit(decimal.NewFromInt(100)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if !a.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance changed on failed mutation: %s", a.Balance)
	}
}

func TestAccountCommonMayGoNegative(t *testing.T) {
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolCommon, 0, 0)

	mutation, err := a.Credit(decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mutation.Balance.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("expected balance -500, got %s", mutation.Balance)
	}
}

func TestAccountFreezeAndUnfreeze(t *testing.T) {
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolAsset, 1000, 0)

	mutation, err := a.Freeze(decimal.NewFromInt(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation.Movement != domain.MovementFreeze {
		t.Errorf("expected freeze movement, got %d", mutation.Movement)
	}
	if !a.Hold.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected hold 400, got %s", a.Hold)
	}
	if !a.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("freeze moved balance: %s", a.Balance)
	}
	if !a.Available().Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected available 600, got %s", a.Available())
	}

	if _, err := a.Unfreeze(decimal.NewFromInt(400)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Hold.IsZero() {
		t.Errorf("expected hold 0 after unfreeze, got %s", a.Hold)
	}
}

func TestAccountFreezeBeyondAvailable(t *testing.T) {
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolAsset, 100, 80)

	if _, err := a.Freeze(decimal.NewFromInt(50)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestAccountUnfreezeBeyondHold(t *testing.T) {
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolAsset, 1000, 100)

	if _, err := a.Unfreeze(decimal.NewFromInt(200)); !errors.Is(err, domain.ErrInsufficientHold) {
		t.Fatalf("expected ErrInsufficientHold, got %v", err)
	}
}

func TestAccountNegativeHoldAmountIsNoOp(t *testing.T) {
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolAsset, 1000, 100)

	mutation, err := a.Freeze(decimal.NewFromInt(-50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation != nil {
		t.Fatalf("expected nil mutation for negative freeze, got %+v", mutation)
	}

	mutation, err = a.Unfreeze(decimal.NewFromInt(-50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation != nil {
		t.Fatalf("expected nil mutation for negative unfreeze, got %+v", mutation)
	}

	if !a.Hold.Equal(decimal.NewFromInt(100)) {
		t.Errorf("hold changed on no-op: %s", a.Hold)
	}
}

func TestAccountNegativePaidReversal(t *testing.T) {
	// A negative paid amount reverses a prior booking; it is legal as long as
	// the resulting available balance stays non-negative.
	a := newSyncedAccount(domain.BalanceTypeDebit, domain.SymbolAsset, 1000, 0)

	mutation, err := a.Debit(decimal.NewFromInt(-300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mutation.Paid.Equal(decimal.NewFromInt(-300)) {
		t.Errorf("expected paid -300, got %s", mutation.Paid)
	}
	if !a.Balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("expected balance 700, got %s", a.Balance)
	}
}

func TestAccountUnsyncedMutationIsIllegal(t *testing.T) {
	a := &domain.Account{
		UID:         7,
		UIN:         "9001000007",
		Symbol:      domain.SymbolAsset,
		BalanceType: domain.BalanceTypeDebit,
		Balance:     decimal.NewFromInt(1000),
	}

	if _, err := a.Debit(decimal.NewFromInt(10)); !errors.Is(err, domain.ErrIllegalOperation) {
		t.Fatalf("expected ErrIllegalOperation, got %v", err)
	}
}

func TestAccountSignPayloadFormat(t *testing.T) {
	a := &domain.Account{
		UID:         42,
		UIN:         "9001000042",
		Symbol:      domain.SymbolAsset,
		Currency:    "CNY",
		LedgerType:  domain.LedgerTypeUser,
		BalanceType: domain.BalanceTypeDebit,
		Balance:     decimal.NewFromInt(1000),
		Hold:        decimal.NewFromInt(50),
	}

	want := "v1|acct|42:9001000042:1:CNY:0:1:1000:50"
	if got := a.SignPayload(); got != want {
		t.Errorf("payload drift:\nwant %q\ngot  %q", want, got)
	}
}
