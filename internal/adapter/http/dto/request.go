package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	UID         int64  `json:"uid"`
	UIN         string `json:"uin"`
	Name        string `json:"name"`
	Symbol      int    `json:"symbol"`
	Currency    string `json:"currency"`
	LedgerType  int    `json:"ledger_type"`
	BalanceType int    `json:"balance_type"`
	Memo        string `json:"memo,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ip string) (usecase.CreateAccountInput, error) {
	if r.UID == 0 || r.UIN == "" {
		return usecase.CreateAccountInput{}, fmt.Errorf("uid and uin are required")
	}

	if r.Symbol < int(domain.SymbolAsset) || r.Symbol > int(domain.SymbolCommon) {
		return usecase.CreateAccountInput{}, fmt.Errorf("symbol %d out of range", r.Symbol)
	}

	if r.BalanceType != int(domain.BalanceTypeDebit) && r.BalanceType != int(domain.BalanceTypeCredit) {
		return usecase.CreateAccountInput{}, fmt.Errorf("balance_type %d out of range", r.BalanceType)
	}

	if r.LedgerType != domain.LedgerTypeUser && r.LedgerType != domain.LedgerTypeGeneral {
		return usecase.CreateAccountInput{}, fmt.Errorf("ledger_type %d out of range", r.LedgerType)
	}

	return usecase.CreateAccountInput{
		UID:         r.UID,
		UIN:         r.UIN,
		Name:        r.Name,
		Symbol:      domain.Symbol(r.Symbol),
		Currency:    r.Currency,
		LedgerType:  r.LedgerType,
		BalanceType: domain.BalanceType(r.BalanceType),
		IP:          ip,
		Memo:        r.Memo,
	}, nil
}

// SettlementLeg is one side of a settlement: the user account, its
// general-ledger mirror, the amount, and the optional secondary leg.
type SettlementLeg struct {
	UID      int64           `json:"uid"`
	UIN      string          `json:"uin"`
	Amount   decimal.Decimal `json:"amount"`
	GLUID    int64           `json:"gl_uid"`
	GLUIN    string          `json:"gl_uin"`
	ExUID    int64           `json:"ex_uid,omitempty"`
	ExUIN    string          `json:"ex_uin,omitempty"`
	ExAmount decimal.Decimal `json:"ex_amount,omitempty"`
	ExGLUID  int64           `json:"ex_gl_uid,omitempty"`
	ExGLUIN  string          `json:"ex_gl_uin,omitempty"`
}

// SettlementRequest is the upstream business event behind one settlement. It
// implements usecase.InstructionBuilder, so the engine never sees the
// transport shape.
type SettlementRequest struct {
	ListID     string        `json:"listid"`
	Type       int           `json:"type"`
	Currency   string        `json:"currency"`
	Subject    int           `json:"subject"`
	OuterProof string        `json:"outer_proof,omitempty"`
	Memo       string        `json:"memo,omitempty"`
	TradeMemo  string        `json:"trade_memo,omitempty"`
	Debit      SettlementLeg `json:"debit"`
	Credit     SettlementLeg `json:"credit"`

	// IP is filled by the handler from the connection, never from the body.
	IP string `json:"-"`
}

// BuildInstruction maps the request into instruction fields.
func (r *SettlementRequest) BuildInstruction() (*domain.Instruction, error) {
	if r.ListID == "" {
		return nil, fmt.Errorf("listid is required")
	}

	insType := domain.InstructionType(r.Type)
	switch insType {
	case domain.TypeDirect, domain.TypeFreeze, domain.TypeSuccessUnfreeze, domain.TypeFailUnfreeze:
	default:
		return nil, fmt.Errorf("type %d out of range", r.Type)
	}

	if r.Debit.UID == 0 || r.Credit.UID == 0 || r.Debit.GLUID == 0 || r.Credit.GLUID == 0 {
		return nil, fmt.Errorf("debit, credit and their mirrors are required")
	}

	roleCount := 4
	if !r.Debit.ExAmount.IsZero() {
		roleCount += 2
	}
	if !r.Credit.ExAmount.IsZero() {
		roleCount += 2
	}

	return &domain.Instruction{
		ListID:      r.ListID,
		Currency:    r.Currency,
		Subject:     r.Subject,
		OuterProof:  r.OuterProof,
		Type:        insType,
		IP:          r.IP,
		Memo:        r.Memo,
		TradeMemo:   r.TradeMemo,
		TotalAmount: r.Debit.Amount.Add(r.Debit.ExAmount),
		RoleCount:   roleCount,

		DebitUID:      r.Debit.UID,
		DebitUIN:      r.Debit.UIN,
		DebitAmount:   r.Debit.Amount,
		DebitExUID:    r.Debit.ExUID,
		DebitExUIN:    r.Debit.ExUIN,
		DebitExAmount: r.Debit.ExAmount,

		CreditUID:      r.Credit.UID,
		CreditUIN:      r.Credit.UIN,
		CreditAmount:   r.Credit.Amount,
		CreditExUID:    r.Credit.ExUID,
		CreditExUIN:    r.Credit.ExUIN,
		CreditExAmount: r.Credit.ExAmount,

		DebitGLUID:    r.Debit.GLUID,
		DebitGLUIN:    r.Debit.GLUIN,
		DebitExGLUID:  r.Debit.ExGLUID,
		DebitExGLUIN:  r.Debit.ExGLUIN,
		CreditGLUID:   r.Credit.GLUID,
		CreditGLUIN:   r.Credit.GLUIN,
		CreditExGLUID: r.Credit.ExGLUID,
		CreditExGLUIN: r.Credit.ExGLUIN,
	}, nil
}
