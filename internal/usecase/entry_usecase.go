package usecase

import (
	"context"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
)

// EntryUseCase handles journal entry queries. Entries are written only by
// the settlement engine; this usecase is read-only.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{entryRepo: entryRepo}
}

// ListByAccountInput represents input for listing entries of one account.
type ListByAccountInput struct {
	UID    int64
	Limit  int
	Offset int
}

// ListByAccount lists journal entries for an account, newest first.
func (uc *EntryUseCase) ListByAccount(ctx context.Context, input ListByAccountInput) ([]*domain.JournalEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.entryRepo.ListByAccount(ctx, input.UID, input.Limit, input.Offset)
}

// ListByInstruction lists every journal entry produced by one instruction.
func (uc *EntryUseCase) ListByInstruction(ctx context.Context, listID string) ([]*domain.JournalEntry, error) {
	return uc.entryRepo.ListByInstruction(ctx, listID)
}
