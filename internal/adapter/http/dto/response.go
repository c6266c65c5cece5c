package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	UID         int64           `json:"uid"`
	UIN         string          `json:"uin"`
	Name        string          `json:"name"`
	Symbol      int             `json:"symbol"`
	Currency    string          `json:"currency"`
	LedgerType  int             `json:"ledger_type"`
	BalanceType int             `json:"balance_type"`
	Balance     decimal.Decimal `json:"balance"`
	Hold        decimal.Decimal `json:"hold"`
	Available   decimal.Decimal `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		UID:         a.UID,
		UIN:         a.UIN,
		Name:        a.Name,
		Symbol:      int(a.Symbol),
		Currency:    a.Currency,
		LedgerType:  a.LedgerType,
		BalanceType: int(a.BalanceType),
		Balance:     a.Balance,
		Hold:        a.Hold,
		Available:   a.Available(),
		CreatedAt:   a.CreatedAt,
		ModifiedAt:  a.ModifiedAt,
	}
}

// SettlementResponse represents a settled instruction in API responses.
type SettlementResponse struct {
	ListID      string          `json:"listid"`
	Type        string          `json:"type"`
	State       int             `json:"state"`
	Currency    string          `json:"currency"`
	Subject     int             `json:"subject"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DebitUIN    string          `json:"debit_uin"`
	CreditUIN   string          `json:"credit_uin"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at"`
}

// SettlementFromDomain converts a domain instruction to response.
func SettlementFromDomain(i *domain.Instruction) *SettlementResponse {
	return &SettlementResponse{
		ListID:      i.ListID,
		Type:        i.Type.String(),
		State:       int(i.State),
		Currency:    i.Currency,
		Subject:     i.Subject,
		TotalAmount: i.TotalAmount,
		DebitUIN:    i.DebitUIN,
		CreditUIN:   i.CreditUIN,
		CreatedAt:   i.CreatedAt,
		ModifiedAt:  i.ModifiedAt,
	}
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID         string          `json:"id"`
	ListID     string          `json:"listid"`
	UID        int64           `json:"uid"`
	UIN        string          `json:"uin"`
	Currency   string          `json:"currency"`
	Movement   int             `json:"movement"`
	Subject    int             `json:"subject"`
	CounterUID int64           `json:"counter_uid"`
	CounterUIN string          `json:"counter_uin"`
	Balance    decimal.Decimal `json:"balance"`
	Hold       decimal.Decimal `json:"hold"`
	Paid       decimal.Decimal `json:"paid"`
	Held       decimal.Decimal `json:"held"`
	Label      int             `json:"label"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID,
		ListID:     e.ListID,
		UID:        e.UID,
		UIN:        e.UIN,
		Currency:   e.Currency,
		Movement:   int(e.Movement),
		Subject:    e.Subject,
		CounterUID: e.CounterUID,
		CounterUIN: e.CounterUIN,
		Balance:    e.Balance,
		Hold:       e.Hold,
		Paid:       e.Paid,
		Held:       e.Held,
		Label:      e.Label,
		CreatedAt:  e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ConsistencyResponse reports the ledger control totals.
type ConsistencyResponse struct {
	Consistent bool            `json:"consistent"`
	UserTotal  decimal.Decimal `json:"user_total"`
	GLTotal    decimal.Decimal `json:"gl_total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
