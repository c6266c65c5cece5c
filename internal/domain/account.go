package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Symbol classifies an account. Common accounts are exempt from the
// non-negative available-balance invariant.
type Symbol int

const (
	SymbolAsset     Symbol = 1
	SymbolLiability Symbol = 2
	SymbolCommon    Symbol = 3
)

// BalanceType is the natural increasing side of an account.
type BalanceType int

const (
	BalanceTypeDebit  BalanceType = 1
	BalanceTypeCredit BalanceType = 2
)

// Ledger types distinguish user-facing accounts from their general-ledger
// mirrors.
const (
	LedgerTypeUser    = 0
	LedgerTypeGeneral = 1
)

// Account is one ledger party: a user-facing balance or its general-ledger
// mirror. Balance always includes the held portion; the available balance is
// Balance - Hold.
type Account struct {
	UID               int64
	UIN               string
	Name              string
	Symbol            Symbol
	Currency          string
	LedgerType        int
	BalanceType       BalanceType
	Balance           decimal.Decimal
	Hold              decimal.Decimal
	Transit           decimal.Decimal
	State             int
	IP                string
	Memo              string
	CreatedAt         time.Time
	ModifiedAt        time.Time
	BalanceAt         time.Time
	Timestamp         int64
	TimestampUs       int32
	RecordMode        int
	Signature         string
	LastInstructionID string

	// synced is set once the row has been loaded under a lock and its
	// signature verified. Mutations on an unsynchronized account are illegal.
	synced bool
}

// Mutation describes one applied balance or hold change together with the
// resulting snapshot. The engine turns each one into a journal entry.
type Mutation struct {
	Movement Movement
	Paid     decimal.Decimal
	Held     decimal.Decimal
	Balance  decimal.Decimal
	Hold     decimal.Decimal
}

// MarkSynced records that the account row was read under a lock with a valid
// signature, enabling mutations.
func (a *Account) MarkSynced() {
	a.synced = true
}

// Synced reports whether the account is mutation-ready.
func (a *Account) Synced() bool {
	return a.synced
}

// Available returns Balance - Hold.
func (a *Account) Available() decimal.Decimal {
	return a.Balance.Sub(a.Hold)
}

// Debit books the amount on the debit side. On a debit-natural account the
// balance grows, on a credit-natural account it shrinks.
func (a *Account) Debit(amount decimal.Decimal) (*Mutation, error) {
	movement := MovementIn
	if a.BalanceType == BalanceTypeCredit {
		movement = MovementOut
	}

	return a.applyBalance(movement, amount)
}

// Credit books the amount on the credit side, the mirror-image of Debit.
func (a *Account) Credit(amount decimal.Decimal) (*Mutation, error) {
	movement := MovementOut
	if a.BalanceType == BalanceTypeCredit {
		movement = MovementIn
	}

	return a.applyBalance(movement, amount)
}

// Freeze earmarks the amount without touching the balance. A negative amount
// is a silent no-op: reversal flows pass the negated original amount and must
// not register a new hold.
func (a *Account) Freeze(amount decimal.Decimal) (*Mutation, error) {
	if amount.IsNegative() {
		return nil, nil
	}

	return a.applyHold(MovementFreeze, amount)
}

// Unfreeze releases a previously earmarked amount. A negative amount is a
// silent no-op, same as Freeze.
func (a *Account) Unfreeze(amount decimal.Decimal) (*Mutation, error) {
	if amount.IsNegative() {
		return nil, nil
	}

	return a.applyHold(MovementUnfreeze, amount)
}

func (a *Account) applyBalance(movement Movement, paid decimal.Decimal) (*Mutation, error) {
	if err := a.validate(movement, paid, decimal.Zero); err != nil {
		return nil, err
	}

	if movement == MovementIn {
		a.Balance = a.Balance.Add(paid)
	} else {
		a.Balance = a.Balance.Sub(paid)
	}

	a.touch()

	return &Mutation{
		Movement: movement,
		Paid:     paid,
		Balance:  a.Balance,
		Hold:     a.Hold,
	}, nil
}

func (a *Account) applyHold(movement Movement, held decimal.Decimal) (*Mutation, error) {
	if err := a.validate(movement, decimal.Zero, held); err != nil {
		return nil, err
	}

	if movement == MovementFreeze {
		a.Hold = a.Hold.Add(held)
	} else {
		a.Hold = a.Hold.Sub(held)
	}

	a.touch()

	return &Mutation{
		Movement: movement,
		Held:     held,
		Balance:  a.Balance,
		Hold:     a.Hold,
	}, nil
}

// validate enforces the account invariants. Paid amounts may be negative to
// allow reversals; held amounts may not.
func (a *Account) validate(movement Movement, paid, held decimal.Decimal) error {
	if !a.synced || held.IsNegative() {
		return ErrIllegalOperation
	}

	if a.Symbol != SymbolCommon {
		available := a.Balance.Sub(a.Hold)

		switch movement {
		case MovementOut:
			if available.Sub(paid).IsNegative() {
				return fmt.Errorf("%s: %w", a.UIN, ErrInsufficientFunds)
			}
		case MovementIn:
			if available.Add(paid).IsNegative() {
				return fmt.Errorf("%s: %w", a.UIN, ErrInsufficientFunds)
			}
		case MovementFreeze:
			if available.Sub(held).IsNegative() {
				return fmt.Errorf("%s: %w", a.UIN, ErrInsufficientFunds)
			}
		}
	}

	if movement == MovementUnfreeze && a.Hold.Sub(held).IsNegative() {
		return fmt.Errorf("%s: %w", a.UIN, ErrInsufficientHold)
	}

	return nil
}

func (a *Account) touch() {
	now := time.Now().UTC()
	a.Timestamp = now.Unix()
	a.TimestampUs = int32(now.Nanosecond() / 1000)
	a.ModifiedAt = now
	a.BalanceAt = now
}

// SignPayload serializes the identity and balance fields into the versioned
// format fed to the digest function. Any drift here invalidates every stored
// account signature, so the format is pinned by tests.
func (a *Account) SignPayload() string {
	return fmt.Sprintf("v1|acct|%d:%s:%d:%s:%d:%d:%s:%s",
		a.UID, a.UIN, a.Symbol, a.Currency, a.LedgerType, a.BalanceType,
		a.Balance.String(), a.Hold.String())
}
