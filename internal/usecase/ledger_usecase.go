package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInconsistentLedger is returned when the user-side and general-ledger
// journal control totals diverge.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: control totals diverge")

// LedgerUseCase handles ledger-wide control checks.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport carries the journal control totals of one check.
type ConsistencyReport struct {
	Consistent bool
	UserTotal  decimal.Decimal
	GLTotal    decimal.Decimal
}

// CheckConsistency verifies the lockstep-mirror property on the journal:
// every booking on a user account is mirrored on a general-ledger account
// with the same movement and amount, so the signed paid totals of both sides
// must be equal.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (ConsistencyReport, error) {
	userTotal, glTotal, err := uc.ledgerRepo.ControlTotals(ctx)
	if err != nil {
		return ConsistencyReport{}, err
	}

	report := ConsistencyReport{
		Consistent: userTotal.Equal(glTotal),
		UserTotal:  userTotal,
		GLTotal:    glTotal,
	}

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
