package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/dto"
	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

// SettlementHandler handles settlement HTTP requests.
type SettlementHandler struct {
	settlementUC *usecase.SettlementUseCase
	retrier      usecase.Retrier
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC *usecase.SettlementUseCase, retrier usecase.Retrier) *SettlementHandler {
	return &SettlementHandler{
		settlementUC: settlementUC,
		retrier:      retrier,
	}
}

// Settle executes one settlement instruction. Replays with the same listid
// and parameters return the stored result. Deadlocks and serialization
// failures are retried here; re-running Execute is safe because it is
// idempotent on the listid.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req.IP = remoteIP(r)

	if _, err := req.BuildInstruction(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settlement request", err.Error())
		return
	}

	var instruction *domain.Instruction

	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		instruction, err = h.settlementUC.Execute(r.Context(), &req)
		return err
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "settlement failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(instruction))
}

// Get returns a stored settlement instruction by listid.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listid")
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "listid is required")
		return
	}

	instruction, err := h.settlementUC.GetInstruction(r.Context(), listID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(instruction))
}
