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

const instructionColumns = `listid, currency, subject, outer_proof, type, state, record_state,
	ip, memo, trade_memo, created_at, modified_at, total_amount, role_count,
	debit_uid, debit_uin, debit_amount, debit_ex_uid, debit_ex_uin, debit_ex_amount,
	credit_uid, credit_uin, credit_amount, credit_ex_uid, credit_ex_uin, credit_ex_amount,
	debit_gl_uid, debit_gl_uin, debit_exgl_uid, debit_exgl_uin,
	credit_gl_uid, credit_gl_uin, credit_exgl_uid, credit_exgl_uin, sign`

// InstructionRepository implements usecase.InstructionRepository.
type InstructionRepository struct {
	pool *pgxpool.Pool
}

// NewInstructionRepository creates a new InstructionRepository.
func NewInstructionRepository(pool *pgxpool.Pool) *InstructionRepository {
	return &InstructionRepository{pool: pool}
}

// Create inserts a new instruction row with its signature. It runs outside
// the settlement transaction so the pending record survives a later
// settlement failure and keeps the key reserved.
func (r *InstructionRepository) Create(ctx context.Context, ins *domain.Instruction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO instructions (`+instructionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
		        $27, $28, $29, $30, $31, $32, $33, $34, $35)`,
		ins.ListID, ins.Currency, ins.Subject, ins.OuterProof,
		int(ins.Type), int(ins.State), ins.RecordState,
		ins.IP, ins.Memo, ins.TradeMemo,
		timeToPgTimestamptz(ins.CreatedAt), timeToPgTimestamptz(ins.ModifiedAt),
		decimalToNumeric(ins.TotalAmount), ins.RoleCount,
		ins.DebitUID, ins.DebitUIN, decimalToNumeric(ins.DebitAmount),
		ins.DebitExUID, ins.DebitExUIN, decimalToNumeric(ins.DebitExAmount),
		ins.CreditUID, ins.CreditUIN, decimalToNumeric(ins.CreditAmount),
		ins.CreditExUID, ins.CreditExUIN, decimalToNumeric(ins.CreditExAmount),
		ins.DebitGLUID, ins.DebitGLUIN, ins.DebitExGLUID, ins.DebitExGLUIN,
		ins.CreditGLUID, ins.CreditGLUIN, ins.CreditExGLUID, ins.CreditExGLUIN,
		ins.Signature,
	)

	return err
}

// Get retrieves an instruction by key without a lock.
func (r *InstructionRepository) Get(ctx context.Context, listID string) (*domain.Instruction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+instructionColumns+` FROM instructions WHERE listid = $1`, listID)

	return scanInstruction(row)
}

// GetForUpdate retrieves an instruction by key with a FOR UPDATE lock.
func (r *InstructionRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, listID string) (*domain.Instruction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+instructionColumns+` FROM instructions WHERE listid = $1 FOR UPDATE`, listID)

	return scanInstruction(row)
}

// MarkUsed transitions before -> after, conditional on the current state and
// record_state so a half-written or already-settled row can never settle.
func (r *InstructionRepository) MarkUsed(ctx context.Context, tx usecase.Transaction, listID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE instructions
		SET state = $2, modified_at = now()
		WHERE listid = $1 AND state = $3 AND record_state = $4`,
		listID, int(domain.StateAfter), int(domain.StateBefore), domain.RecordStateCommitted,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("instruction %s mark used: %w", listID, domain.ErrAffectedRows)
	}

	return nil
}

// Reopen transitions a completed freeze instruction after -> before with its
// new type and signature, beginning the release phase of the hold. The state
// condition makes the reopening exactly-once under concurrency.
func (r *InstructionRepository) Reopen(ctx context.Context, ins *domain.Instruction) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE instructions
		SET type = $2, state = $3, sign = $4, modified_at = now()
		WHERE listid = $1 AND state = $5 AND record_state = $6`,
		ins.ListID, int(ins.Type), int(domain.StateBefore), ins.Signature,
		int(domain.StateAfter), domain.RecordStateCommitted,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("instruction %s reopen: %w", ins.ListID, domain.ErrAffectedRows)
	}

	return nil
}

func scanInstruction(row pgx.Row) (*domain.Instruction, error) {
	var (
		ins                    domain.Instruction
		insType, insState      int
		totalAmount            pgtype.Numeric
		debitAmount, creditAmount     pgtype.Numeric
		debitExAmount, creditExAmount pgtype.Numeric
		createdAt, modifiedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&ins.ListID, &ins.Currency, &ins.Subject, &ins.OuterProof,
		&insType, &insState, &ins.RecordState,
		&ins.IP, &ins.Memo, &ins.TradeMemo,
		&createdAt, &modifiedAt, &totalAmount, &ins.RoleCount,
		&ins.DebitUID, &ins.DebitUIN, &debitAmount,
		&ins.DebitExUID, &ins.DebitExUIN, &debitExAmount,
		&ins.CreditUID, &ins.CreditUIN, &creditAmount,
		&ins.CreditExUID, &ins.CreditExUIN, &creditExAmount,
		&ins.DebitGLUID, &ins.DebitGLUIN, &ins.DebitExGLUID, &ins.DebitExGLUIN,
		&ins.CreditGLUID, &ins.CreditGLUIN, &ins.CreditExGLUID, &ins.CreditExGLUIN,
		&ins.Signature,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstructionNotFound
		}

		return nil, err
	}

	ins.Type = domain.InstructionType(insType)
	ins.State = domain.InstructionState(insState)
	ins.TotalAmount = numericToDecimal(totalAmount)
	ins.DebitAmount = numericToDecimal(debitAmount)
	ins.DebitExAmount = numericToDecimal(debitExAmount)
	ins.CreditAmount = numericToDecimal(creditAmount)
	ins.CreditExAmount = numericToDecimal(creditExAmount)
	ins.CreatedAt = createdAt.Time
	ins.ModifiedAt = modifiedAt.Time

	return &ins, nil
}
