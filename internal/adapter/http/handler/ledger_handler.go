package handler

import (
	"errors"
	"net/http"

	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/dto"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

// LedgerHandler handles ledger-wide control queries.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency reports whether the journal control totals balance. An
// inconsistent ledger is reported with 200 and consistent=false; it is a
// finding, not a request failure.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		Consistent: report.Consistent,
		UserTotal:  report.UserTotal,
		GLTotal:    report.GLTotal,
	})
}
