package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// ControlTotals computes the signed paid totals over journal entries,
// separately for user accounts and general-ledger accounts. In-movements
// count positive, out-movements negative; freeze and unfreeze entries carry
// no paid amount and drop out naturally.
func (r *LedgerRepository) ControlTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var userTotal, glTotal pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN a.ledger_type = 0 THEN
				CASE WHEN e.movement = 1 THEN e.paid ELSE -e.paid END
			ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.ledger_type = 1 THEN
				CASE WHEN e.movement = 1 THEN e.paid ELSE -e.paid END
			ELSE 0 END), 0)
		FROM entries e
		JOIN accounts a ON a.uid = e.uid
		WHERE e.movement IN (1, 2)`,
	).Scan(&userTotal, &glTotal)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(userTotal), numericToDecimal(glTotal), nil
}
