package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

const entryColumns = `id, currency, listid, uid, uin, source, movement, action_type, subject,
	counter_uid, counter_uin, balance, hold, paid, held, ip, memo, trade_memo,
	modified_at, created_at, rollback_at, explanation, label, ts`

// EntryRepository implements usecase.EntryRepository. Journal entries are
// append-only; there is no update or delete path.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends a journal entry inside the settlement transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	var rollbackAt pgtype.Timestamptz
	if entry.RollbackAt != nil {
		rollbackAt = timeToPgTimestamptz(*entry.RollbackAt)
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		entry.ID, entry.Currency, entry.ListID, entry.UID, entry.UIN, entry.Source,
		int(entry.Movement), entry.ActionType, entry.Subject,
		entry.CounterUID, entry.CounterUIN,
		decimalToNumeric(entry.Balance), decimalToNumeric(entry.Hold),
		decimalToNumeric(entry.Paid), decimalToNumeric(entry.Held),
		entry.IP, entry.Memo, entry.TradeMemo,
		timeToPgTimestamptz(entry.ModifiedAt), timeToPgTimestamptz(entry.CreatedAt),
		rollbackAt, entry.Explanation, entry.Label, entry.Timestamp,
	)

	return err
}

// ListByAccount returns the newest entries for one account.
func (r *EntryRepository) ListByAccount(ctx context.Context, uid int64, limit, offset int) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE uid = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		uid, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByInstruction returns every entry booked under one settlement key, in
// booking order.
func (r *EntryRepository) ListByInstruction(ctx context.Context, listID string) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE listid = $1
		ORDER BY created_at ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry

	for rows.Next() {
		var (
			entry                  domain.JournalEntry
			movement               int
			balance, hold          pgtype.Numeric
			paid, held             pgtype.Numeric
			modifiedAt, createdAt  pgtype.Timestamptz
			rollbackAt             pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID, &entry.Currency, &entry.ListID, &entry.UID, &entry.UIN, &entry.Source,
			&movement, &entry.ActionType, &entry.Subject,
			&entry.CounterUID, &entry.CounterUIN,
			&balance, &hold, &paid, &held,
			&entry.IP, &entry.Memo, &entry.TradeMemo,
			&modifiedAt, &createdAt, &rollbackAt,
			&entry.Explanation, &entry.Label, &entry.Timestamp,
		)
		if err != nil {
			return nil, err
		}

		entry.Movement = domain.Movement(movement)
		entry.Balance = numericToDecimal(balance)
		entry.Hold = numericToDecimal(hold)
		entry.Paid = numericToDecimal(paid)
		entry.Held = numericToDecimal(held)
		entry.ModifiedAt = modifiedAt.Time
		entry.CreatedAt = createdAt.Time

		if rollbackAt.Valid {
			t := rollbackAt.Time
			entry.RollbackAt = &t
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
