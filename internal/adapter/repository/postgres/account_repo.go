package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

const accountColumns = `uid, uin, name, symbol, currency, ledger_type, balance_type,
	balance, hold, transit, state, ip, memo, created_at, modified_at, balance_at,
	ts, ts_us, record_mode, sign, last_listid`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		account.UID, account.UIN, account.Name, int(account.Symbol), account.Currency,
		account.LedgerType, int(account.BalanceType),
		decimalToNumeric(account.Balance), decimalToNumeric(account.Hold), decimalToNumeric(account.Transit),
		account.State, account.IP, account.Memo,
		timeToPgTimestamptz(account.CreatedAt), timeToPgTimestamptz(account.ModifiedAt), timeToPgTimestamptz(account.BalanceAt),
		account.Timestamp, account.TimestampUs, account.RecordMode,
		account.Signature, account.LastInstructionID,
	)

	return err
}

// GetByUID retrieves an account by UID without a lock.
func (r *AccountRepository) GetByUID(ctx context.Context, uid int64) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE uid = $1`, uid)

	return scanAccount(row)
}

// GetByUIDForUpdate retrieves an account by UID with a FOR UPDATE lock.
func (r *AccountRepository) GetByUIDForUpdate(ctx context.Context, tx usecase.Transaction, uid int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE uid = $1 FOR UPDATE`, uid)

	return scanAccount(row)
}

// Update persists the balance, hold, signature and bookkeeping fields of a
// mutated account. Exactly one row must be affected.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE accounts
		SET balance = $2, hold = $3, sign = $4, last_listid = $5,
		    ts = $6, ts_us = $7, modified_at = now(), balance_at = now()
		WHERE uid = $1`,
		account.UID,
		decimalToNumeric(account.Balance), decimalToNumeric(account.Hold),
		account.Signature, account.LastInstructionID,
		account.Timestamp, account.TimestampUs,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("account %d: %w", account.UID, domain.ErrAffectedRows)
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account                         domain.Account
		symbol, balanceType             int
		balance, hold, transit          pgtype.Numeric
		createdAt, modifiedAt, balAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&account.UID, &account.UIN, &account.Name, &symbol, &account.Currency,
		&account.LedgerType, &balanceType,
		&balance, &hold, &transit,
		&account.State, &account.IP, &account.Memo,
		&createdAt, &modifiedAt, &balAt,
		&account.Timestamp, &account.TimestampUs, &account.RecordMode,
		&account.Signature, &account.LastInstructionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Symbol = domain.Symbol(symbol)
	account.BalanceType = domain.BalanceType(balanceType)
	account.Balance = numericToDecimal(balance)
	account.Hold = numericToDecimal(hold)
	account.Transit = numericToDecimal(transit)
	account.CreatedAt = createdAt.Time
	account.ModifiedAt = modifiedAt.Time
	account.BalanceAt = balAt.Time

	return &account, nil
}
