package domain

import "errors"

// Kind partitions settlement errors by how callers must react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindParamConflict
	KindIllegalTransition
	KindAlreadyCompleted
	KindNotFound
	KindMultiRow
	KindTamper
	KindInsufficientFunds
	KindInsufficientHold
	KindIllegalOperation
	KindAffectedRows
	KindBadBranch
)

// Error is a settlement error carrying its kind. Sentinels below are matched
// with errors.Is; wrapped variants (fmt.Errorf with %w) keep the kind.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the error's kind.
func (e *Error) Kind() Kind {
	return e.kind
}

var (
	// ErrParamConflict: a reentrant request carried different settlement
	// parameters, or a different type against a still-pending instruction.
	ErrParamConflict = &Error{KindParamConflict, "instruction reentry with conflicting parameters"}

	// ErrIllegalTransition: the requested type is not reachable from the
	// stored instruction's current type/state.
	ErrIllegalTransition = &Error{KindIllegalTransition, "instruction type not reachable from current state"}

	// ErrAlreadyCompleted is the idempotent-replay signal, absorbed by the
	// engine and never surfaced to callers as a failure.
	ErrAlreadyCompleted = &Error{KindAlreadyCompleted, "instruction already settled"}

	ErrAccountNotFound     = &Error{KindNotFound, "account not found"}
	ErrInstructionNotFound = &Error{KindNotFound, "instruction not found"}
	ErrMultiRow            = &Error{KindMultiRow, "more than one row matched where exactly one was expected"}

	// ErrTamperDetected: a stored row's signature does not match the digest
	// recomputed over its fields.
	ErrTamperDetected = &Error{KindTamper, "row signature mismatch"}

	ErrInsufficientFunds = &Error{KindInsufficientFunds, "insufficient available balance"}
	ErrInsufficientHold  = &Error{KindInsufficientHold, "insufficient held amount"}

	// ErrIllegalOperation: mutating an unsynchronized account, or a negative
	// hold amount reaching validation.
	ErrIllegalOperation = &Error{KindIllegalOperation, "illegal account operation"}

	// ErrAffectedRows: a conditional update did not affect exactly one row.
	ErrAffectedRows = &Error{KindAffectedRows, "conditional update affected row count != 1"}

	// ErrBadBranch is the defensive fallback for unreachable type/state
	// combinations.
	ErrBadBranch = &Error{KindBadBranch, "unreachable instruction type/state combination"}
)

// KindOf extracts the Kind of err, unwrapping as needed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return KindUnknown
}
