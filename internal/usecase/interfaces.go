package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUID(ctx context.Context, uid int64) (*domain.Account, error)
	GetByUIDForUpdate(ctx context.Context, tx Transaction, uid int64) (*domain.Account, error)
	// Update persists balance, hold, signature and bookkeeping fields of a
	// mutated account. Exactly one row must be affected.
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
}

// InstructionRepository defines data access for settlement instructions.
type InstructionRepository interface {
	Create(ctx context.Context, instruction *domain.Instruction) error
	Get(ctx context.Context, listID string) (*domain.Instruction, error)
	GetForUpdate(ctx context.Context, tx Transaction, listID string) (*domain.Instruction, error)
	// MarkUsed transitions before -> after, conditional on the current state
	// and record_state. Exactly one row must be affected.
	MarkUsed(ctx context.Context, tx Transaction, listID string) error
	// Reopen transitions a completed freeze instruction after -> before with
	// its new type and signature. Exactly one row must be affected.
	Reopen(ctx context.Context, instruction *domain.Instruction) error
}

// EntryRepository defines data access for journal entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	ListByAccount(ctx context.Context, uid int64, limit, offset int) ([]*domain.JournalEntry, error)
	ListByInstruction(ctx context.Context, listID string) ([]*domain.JournalEntry, error)
}

// LedgerRepository defines ledger-wide control queries.
type LedgerRepository interface {
	// ControlTotals returns the signed sum of paid amounts (in positive,
	// out negative) over journal entries, separately for user accounts and
	// general-ledger accounts. The mirrors run in lockstep, so both totals
	// are equal on a consistent ledger.
	ControlTotals(ctx context.Context) (userTotal, glTotal decimal.Decimal, err error)
}

// IdempotencyStore caches final HTTP responses keyed by settlement key so
// transport-level replays short-circuit before reaching the engine. The
// engine's own instruction table stays the source of truth; this cache is an
// optimization only.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Signer produces tamper-evident digests over serialized row payloads.
type Signer interface {
	Digest(payload string) string
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// InstructionBuilder maps an upstream business event into instruction
// fields. The engine depends only on this capability, never on the concrete
// event type.
type InstructionBuilder interface {
	BuildInstruction() (*domain.Instruction, error)
}

// Retrier re-runs an operation on retryable storage errors. The engine never
// retries by itself; retrying Execute is safe because of its idempotency.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
