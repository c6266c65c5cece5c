package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstructionType selects the mutation routine a settlement runs.
type InstructionType int

const (
	TypeDirect          InstructionType = 1
	TypeFreeze          InstructionType = 2
	TypeSuccessUnfreeze InstructionType = 3
	TypeFailUnfreeze    InstructionType = 4
)

func (t InstructionType) String() string {
	switch t {
	case TypeDirect:
		return "direct"
	case TypeFreeze:
		return "freeze"
	case TypeSuccessUnfreeze:
		return "success-unfreeze"
	case TypeFailUnfreeze:
		return "fail-unfreeze"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// InstructionState tracks whether a settlement instruction has been applied.
type InstructionState int

const (
	StateBefore InstructionState = 1
	StateAfter  InstructionState = 2
)

// RecordStateCommitted marks an instruction row as durably written as
// intended. Only such rows are eligible for the before -> after transition;
// this guards against half-written rows ever settling.
const RecordStateCommitted = 1

// Instruction is the durable, idempotent record of one settlement request,
// keyed by the caller-supplied ListID. It references up to eight accounts:
// primary debit/credit, their general-ledger mirrors, and optional secondary
// legs with their mirrors.
type Instruction struct {
	ListID      string
	Currency    string
	Subject     int
	OuterProof  string
	Type        InstructionType
	State       InstructionState
	RecordState int
	IP          string
	Memo        string
	TradeMemo   string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	TotalAmount decimal.Decimal
	RoleCount   int

	DebitUID      int64
	DebitUIN      string
	DebitAmount   decimal.Decimal
	DebitExUID    int64
	DebitExUIN    string
	DebitExAmount decimal.Decimal

	CreditUID      int64
	CreditUIN      string
	CreditAmount   decimal.Decimal
	CreditExUID    int64
	CreditExUIN    string
	CreditExAmount decimal.Decimal

	DebitGLUID    int64
	DebitGLUIN    string
	DebitExGLUID  int64
	DebitExGLUIN  string
	CreditGLUID   int64
	CreditGLUIN   string
	CreditExGLUID int64
	CreditExGLUIN string

	Signature string
}

// SignPayload serializes every field that determines settlement behavior:
// key, currency, all participating accounts, all amounts and the subject.
// The type is deliberately excluded so the freeze -> unfreeze reopening keeps
// the stored signature comparable against a rebuilt candidate.
func (i *Instruction) SignPayload() string {
	return fmt.Sprintf("v1|proof|%s:%s:%d:%s:%s:%d:%s:%s:%d:%s:%s:%d:%s:%s:%d:%s:%d:%s:%d:%s:%d:%s:%d",
		i.ListID, i.Currency,
		i.DebitUID, i.DebitUIN, i.DebitAmount.String(),
		i.DebitExUID, i.DebitExUIN, i.DebitExAmount.String(),
		i.CreditUID, i.CreditUIN, i.CreditAmount.String(),
		i.CreditExUID, i.CreditExUIN, i.CreditExAmount.String(),
		i.DebitGLUID, i.DebitGLUIN,
		i.DebitExGLUID, i.DebitExGLUIN,
		i.CreditGLUID, i.CreditGLUIN,
		i.CreditExGLUID, i.CreditExGLUIN,
		i.Subject)
}

// Reopen turns a completed freeze instruction into the release phase of the
// hold: the type is overwritten and the state reset so the instruction can be
// settled exactly once more. Callers must have validated the transition.
func (i *Instruction) Reopen(requested InstructionType) {
	i.Type = requested
	i.State = StateBefore
}
