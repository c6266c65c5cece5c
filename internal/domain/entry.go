package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is the direction of a journal entry.
type Movement int

const (
	MovementIn       Movement = 1
	MovementOut      Movement = 2
	MovementFreeze   Movement = 3
	MovementUnfreeze Movement = 4
)

// Journal entry labels. Reversal entries carry negative paid amounts.
const (
	LabelNormal   = 0
	LabelReversal = 2
)

// JournalEntry is the append-only record of one balance or hold mutation on
// one account. Entries are never updated or deleted; they are the sole source
// of audit history.
type JournalEntry struct {
	ID          string
	Currency    string
	ListID      string
	UID         int64
	UIN         string
	Source      string
	Movement    Movement
	ActionType  int
	Subject     int
	CounterUID  int64
	CounterUIN  string
	Balance     decimal.Decimal
	Hold        decimal.Decimal
	Paid        decimal.Decimal
	Held        decimal.Decimal
	IP          string
	Memo        string
	TradeMemo   string
	ModifiedAt  time.Time
	CreatedAt   time.Time
	RollbackAt  *time.Time
	Explanation string
	Label       int
	Timestamp   int64
}
