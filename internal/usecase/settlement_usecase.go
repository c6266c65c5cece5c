package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/metrics"
)

// SettlementUseCase is the settlement engine: it owns the lifecycle of one
// instruction and the accounts it touches for the duration of one Execute
// call, and nothing across calls.
type SettlementUseCase struct {
	txManager       TransactionManager
	instructionRepo InstructionRepository
	accountRepo     AccountRepository
	entryRepo       EntryRepository
	signer          Signer
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	instructionRepo InstructionRepository,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	signer Signer,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:       txManager,
		instructionRepo: instructionRepo,
		accountRepo:     accountRepo,
		entryRepo:       entryRepo,
		signer:          signer,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// Execute settles one instruction. It is idempotent under retry with the
// same event: a replay of a settled instruction returns the stored
// instruction and success without touching any balance.
func (uc *SettlementUseCase) Execute(ctx context.Context, builder InstructionBuilder) (*domain.Instruction, error) {
	start := time.Now()

	candidate, err := builder.BuildInstruction()
	if err != nil {
		return nil, err
	}

	candidate.State = domain.StateBefore
	candidate.RecordState = domain.RecordStateCommitted

	if candidate.CreatedAt.IsZero() {
		now := time.Now().UTC()
		candidate.CreatedAt = now
		candidate.ModifiedAt = now
	}

	candidate.Signature = uc.signer.Digest(candidate.SignPayload())

	instruction, err := uc.reconcile(ctx, candidate)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCompleted) {
			uc.observe(candidate.Type, start, nil)
			return instruction, nil
		}

		uc.observe(candidate.Type, start, err)

		return nil, err
	}

	if err := uc.settle(ctx, instruction); err != nil {
		if errors.Is(err, domain.ErrAlreadyCompleted) {
			uc.observe(instruction.Type, start, nil)
			return instruction, nil
		}

		uc.observe(instruction.Type, start, err)

		return nil, err
	}

	instruction.State = domain.StateAfter
	uc.observe(instruction.Type, start, nil)

	return instruction, nil
}

// GetInstruction retrieves a stored instruction and verifies its signature,
// surfacing any external modification as tamper-detected.
func (uc *SettlementUseCase) GetInstruction(ctx context.Context, listID string) (*domain.Instruction, error) {
	instruction, err := uc.instructionRepo.Get(ctx, listID)
	if err != nil {
		return nil, err
	}

	if instruction.Signature != uc.signer.Digest(instruction.SignPayload()) {
		return nil, fmt.Errorf("instruction %s: %w", instruction.ListID, domain.ErrTamperDetected)
	}

	return instruction, nil
}

// reconcile loads or creates the durable instruction for the candidate and
// returns the one to settle. A stored instruction is verified against
// tampering, compared against the candidate's signature, and moved through
// the transition rule.
func (uc *SettlementUseCase) reconcile(ctx context.Context, candidate *domain.Instruction) (*domain.Instruction, error) {
	stored, err := uc.instructionRepo.Get(ctx, candidate.ListID)
	if errors.Is(err, domain.ErrInstructionNotFound) {
		if err := uc.instructionRepo.Create(ctx, candidate); err != nil {
			return nil, err
		}

		return candidate, nil
	}

	if err != nil {
		return nil, err
	}

	if stored.Signature != uc.signer.Digest(stored.SignPayload()) {
		return nil, fmt.Errorf("instruction %s: %w", stored.ListID, domain.ErrTamperDetected)
	}

	if stored.Signature != candidate.Signature {
		return nil, fmt.Errorf("instruction %s: %w", stored.ListID, domain.ErrParamConflict)
	}

	if err := uc.transition(ctx, stored, candidate.Type); err != nil {
		return stored, err
	}

	return stored, nil
}

// transition applies the instruction state rule:
//   - a completed instruction replayed with its own type is already-completed;
//   - a completed freeze may be reopened exactly once, by success-unfreeze or
//     fail-unfreeze, to begin the release phase of the hold;
//   - any other completed instruction signals already-completed;
//   - a pending instruction only accepts its own type again.
func (uc *SettlementUseCase) transition(ctx context.Context, stored *domain.Instruction, requested domain.InstructionType) error {
	switch {
	case stored.State == domain.StateAfter && stored.Type == requested:
		return domain.ErrAlreadyCompleted

	case stored.Type == domain.TypeFreeze && stored.State == domain.StateAfter:
		if requested != domain.TypeSuccessUnfreeze && requested != domain.TypeFailUnfreeze {
			return fmt.Errorf("instruction %s is a completed freeze: %w", stored.ListID, domain.ErrIllegalTransition)
		}

		stored.Reopen(requested)
		stored.Signature = uc.signer.Digest(stored.SignPayload())

		return uc.instructionRepo.Reopen(ctx, stored)

	case stored.State == domain.StateAfter:
		return domain.ErrAlreadyCompleted

	case stored.Type != requested:
		return fmt.Errorf("instruction %s pending as %s, requested %s: %w",
			stored.ListID, stored.Type, requested, domain.ErrParamConflict)
	}

	return nil
}

func (uc *SettlementUseCase) settle(ctx context.Context, instruction *domain.Instruction) error {
	switch instruction.Type {
	case domain.TypeDirect:
		return uc.run(ctx, instruction.ListID, uc.settleDirect)
	case domain.TypeFreeze:
		return uc.run(ctx, instruction.ListID, uc.settleFreeze)
	case domain.TypeSuccessUnfreeze:
		return uc.run(ctx, instruction.ListID, uc.settleSuccessUnfreeze)
	case domain.TypeFailUnfreeze:
		return uc.run(ctx, instruction.ListID, uc.settleFailUnfreeze)
	default:
		return fmt.Errorf("instruction type %s: %w", instruction.Type, domain.ErrBadBranch)
	}
}

// run executes one mutation routine inside one transaction: lock the
// instruction row first, run the routine, mark the instruction used, commit.
// Any error rolls the whole transaction back.
func (uc *SettlementUseCase) run(ctx context.Context, listID string, routine func(ctx context.Context, tx Transaction, ins *domain.Instruction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	instruction, err := uc.lockInstruction(txCtx, tx, listID)
	if err != nil {
		return err
	}

	if err := routine(txCtx, tx, instruction); err != nil {
		return err
	}

	if err := uc.instructionRepo.MarkUsed(txCtx, tx, instruction.ListID); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// settleDirect moves the amounts immediately: debit side out of (or into)
// the primary debit account and its mirror, credit side into the primary
// credit account and its mirror, plus the secondary legs when their amount
// is non-zero. Counterparty on every entry is the opposite primary party.
func (uc *SettlementUseCase) settleDirect(ctx context.Context, tx Transaction, ins *domain.Instruction) error {
	debit, credit, debitGL, creditGL, err := uc.lockParties(ctx, tx, ins)
	if err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debit, ins, credit, debit.Debit, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, credit, ins, debit, credit.Credit, ins.CreditAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debitGL, ins, creditGL, debitGL.Debit, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, creditGL, ins, debitGL, creditGL.Credit, ins.CreditAmount); err != nil {
		return err
	}

	if !ins.DebitExAmount.IsZero() {
		debitEx, err := uc.lockAccount(ctx, tx, ins.DebitExUID)
		if err != nil {
			return err
		}

		debitExGL, err := uc.lockAccount(ctx, tx, ins.DebitExGLUID)
		if err != nil {
			return err
		}

		if err := uc.book(ctx, tx, debitEx, ins, credit, debitEx.Debit, ins.DebitExAmount); err != nil {
			return err
		}

		if err := uc.book(ctx, tx, debitExGL, ins, creditGL, debitExGL.Debit, ins.DebitExAmount); err != nil {
			return err
		}
	}

	if !ins.CreditExAmount.IsZero() {
		creditEx, err := uc.lockAccount(ctx, tx, ins.CreditExUID)
		if err != nil {
			return err
		}

		creditExGL, err := uc.lockAccount(ctx, tx, ins.CreditExGLUID)
		if err != nil {
			return err
		}

		if err := uc.book(ctx, tx, creditEx, ins, debit, creditEx.Credit, ins.CreditExAmount); err != nil {
			return err
		}

		if err := uc.book(ctx, tx, creditExGL, ins, debitGL, creditExGL.Credit, ins.CreditExAmount); err != nil {
			return err
		}
	}

	return nil
}

// settleFreeze earmarks the amounts on all four primary parties without
// moving any balance.
func (uc *SettlementUseCase) settleFreeze(ctx context.Context, tx Transaction, ins *domain.Instruction) error {
	debit, credit, debitGL, creditGL, err := uc.lockParties(ctx, tx, ins)
	if err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debit, ins, credit, debit.Freeze, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, credit, ins, debit, credit.Freeze, ins.CreditAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debitGL, ins, creditGL, debitGL.Freeze, ins.DebitAmount); err != nil {
		return err
	}

	return uc.book(ctx, tx, creditGL, ins, debitGL, creditGL.Freeze, ins.CreditAmount)
}

// settleSuccessUnfreeze releases the hold and finalizes the transfer:
// unfreeze then debit/credit on every primary party.
func (uc *SettlementUseCase) settleSuccessUnfreeze(ctx context.Context, tx Transaction, ins *domain.Instruction) error {
	debit, credit, debitGL, creditGL, err := uc.lockParties(ctx, tx, ins)
	if err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debit, ins, credit, debit.Unfreeze, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debit, ins, credit, debit.Debit, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, credit, ins, debit, credit.Unfreeze, ins.CreditAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, credit, ins, debit, credit.Credit, ins.CreditAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debitGL, ins, creditGL, debitGL.Unfreeze, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debitGL, ins, creditGL, debitGL.Debit, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, creditGL, ins, debitGL, creditGL.Unfreeze, ins.CreditAmount); err != nil {
		return err
	}

	return uc.book(ctx, tx, creditGL, ins, debitGL, creditGL.Credit, ins.CreditAmount)
}

// settleFailUnfreeze voids a prior freeze: releases the hold on every primary
// party without transferring funds.
func (uc *SettlementUseCase) settleFailUnfreeze(ctx context.Context, tx Transaction, ins *domain.Instruction) error {
	debit, credit, debitGL, creditGL, err := uc.lockParties(ctx, tx, ins)
	if err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debit, ins, credit, debit.Unfreeze, ins.DebitAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, credit, ins, debit, credit.Unfreeze, ins.CreditAmount); err != nil {
		return err
	}

	if err := uc.book(ctx, tx, debitGL, ins, creditGL, debitGL.Unfreeze, ins.DebitAmount); err != nil {
		return err
	}

	return uc.book(ctx, tx, creditGL, ins, debitGL, creditGL.Unfreeze, ins.CreditAmount)
}

// lockParties takes exclusive row locks on the four primary accounts in the
// fixed global order: debit, credit, debit mirror, credit mirror. The same
// order at every call site keeps concurrent settlements deadlock-free.
func (uc *SettlementUseCase) lockParties(ctx context.Context, tx Transaction, ins *domain.Instruction) (debit, credit, debitGL, creditGL *domain.Account, err error) {
	if debit, err = uc.lockAccount(ctx, tx, ins.DebitUID); err != nil {
		return nil, nil, nil, nil, err
	}

	if credit, err = uc.lockAccount(ctx, tx, ins.CreditUID); err != nil {
		return nil, nil, nil, nil, err
	}

	if debitGL, err = uc.lockAccount(ctx, tx, ins.DebitGLUID); err != nil {
		return nil, nil, nil, nil, err
	}

	if creditGL, err = uc.lockAccount(ctx, tx, ins.CreditGLUID); err != nil {
		return nil, nil, nil, nil, err
	}

	return debit, credit, debitGL, creditGL, nil
}

// lockAccount loads an account under an exclusive row lock, verifies its
// signature and marks it synchronized for mutation.
func (uc *SettlementUseCase) lockAccount(ctx context.Context, tx Transaction, uid int64) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByUIDForUpdate(ctx, tx, uid)
	if err != nil {
		return nil, err
	}

	if account.Signature != uc.signer.Digest(account.SignPayload()) {
		return nil, fmt.Errorf("account %s: %w", account.UIN, domain.ErrTamperDetected)
	}

	account.MarkSynced()

	return account, nil
}

// book applies one mutation to a locked account, persists the re-signed row
// and appends the journal entry. A nil mutation (negative freeze/unfreeze)
// books nothing.
func (uc *SettlementUseCase) book(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	ins *domain.Instruction,
	counter *domain.Account,
	mutate func(decimal.Decimal) (*domain.Mutation, error),
	amount decimal.Decimal,
) error {
	mutation, err := mutate(amount)
	if err != nil {
		return err
	}

	if mutation == nil {
		return nil
	}

	account.LastInstructionID = ins.ListID
	account.Signature = uc.signer.Digest(account.SignPayload())

	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return err
	}

	if err := uc.entryRepo.Create(ctx, tx, uc.newEntry(account, ins, mutation, counter)); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesRecorded.Inc()
	}

	return nil
}

func (uc *SettlementUseCase) newEntry(account *domain.Account, ins *domain.Instruction, mutation *domain.Mutation, counter *domain.Account) *domain.JournalEntry {
	now := time.Now().UTC()

	label := domain.LabelNormal
	if mutation.Paid.IsNegative() {
		label = domain.LabelReversal
	}

	return &domain.JournalEntry{
		ID:         uc.idGen.Generate(),
		Currency:   account.Currency,
		ListID:     ins.ListID,
		UID:        account.UID,
		UIN:        account.UIN,
		Source:     ins.OuterProof,
		Movement:   mutation.Movement,
		Subject:    ins.Subject,
		CounterUID: counter.UID,
		CounterUIN: counter.UIN,
		Balance:    mutation.Balance,
		Hold:       mutation.Hold,
		Paid:       mutation.Paid,
		Held:       mutation.Held,
		IP:         ins.IP,
		Memo:       ins.Memo,
		TradeMemo:  ins.TradeMemo,
		CreatedAt:  now,
		ModifiedAt: now,
		Label:      label,
		Timestamp:  now.Unix(),
	}
}

// lockInstruction loads the instruction row under an exclusive lock and
// verifies its signature. A missing row here is a storage integrity
// violation: the row was created or validated moments ago.
func (uc *SettlementUseCase) lockInstruction(ctx context.Context, tx Transaction, listID string) (*domain.Instruction, error) {
	instruction, err := uc.instructionRepo.GetForUpdate(ctx, tx, listID)
	if err != nil {
		return nil, err
	}

	if instruction.Signature != uc.signer.Digest(instruction.SignPayload()) {
		return nil, fmt.Errorf("instruction %s: %w", instruction.ListID, domain.ErrTamperDetected)
	}

	return instruction, nil
}

func (uc *SettlementUseCase) observe(insType domain.InstructionType, start time.Time, err error) {
	if uc.metrics == nil {
		return
	}

	if err != nil {
		uc.metrics.SettlementErrors.WithLabelValues(kindLabel(err)).Inc()
		return
	}

	uc.metrics.SettlementsExecuted.WithLabelValues(insType.String()).Inc()
	uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
}

func kindLabel(err error) string {
	switch domain.KindOf(err) {
	case domain.KindParamConflict:
		return "param_conflict"
	case domain.KindIllegalTransition:
		return "illegal_transition"
	case domain.KindNotFound:
		return "not_found"
	case domain.KindMultiRow:
		return "multi_row"
	case domain.KindTamper:
		return "tamper"
	case domain.KindInsufficientFunds:
		return "insufficient_funds"
	case domain.KindInsufficientHold:
		return "insufficient_hold"
	case domain.KindIllegalOperation:
		return "illegal_operation"
	case domain.KindAffectedRows:
		return "affected_rows"
	case domain.KindBadBranch:
		return "bad_branch"
	default:
		return "internal"
	}
}
