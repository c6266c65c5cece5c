package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/dto"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

// EntryHandler handles journal entry HTTP requests.
type EntryHandler struct {
	entryUC *usecase.EntryUseCase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists journal entries for an account, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account uid", err.Error())
		return
	}

	entries, err := h.entryUC.ListByAccount(r.Context(), usecase.ListByAccountInput{
		UID:    uid,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByInstruction lists every journal entry booked under one settlement key.
func (h *EntryHandler) ListByInstruction(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listid")
	if listID == "" {
		writeError(w, http.StatusBadRequest, "missing listid", "")
		return
	}

	entries, err := h.entryUC.ListByInstruction(r.Context(), listID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
