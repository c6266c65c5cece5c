package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/signing"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase/mocks"
)

func TestAccountUseCaseCreateAccount(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	signer := signing.NewSHA256Signer()
	uc := usecase.NewAccountUseCase(accountRepo, signer, nil)

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		UID:         101,
		UIN:         "9001000101",
		Name:        "settlement wallet",
		Symbol:      domain.SymbolAsset,
		Currency:    "CNY",
		LedgerType:  domain.LedgerTypeUser,
		BalanceType: domain.BalanceTypeDebit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.Balance.IsZero() || !account.Hold.IsZero() {
		t.Errorf("new account must start at zero, got balance=%s hold=%s", account.Balance, account.Hold)
	}

	if account.Signature != signer.Digest(account.SignPayload()) {
		t.Error("creation signature does not verify")
	}

	// The stored row must round-trip through the tamper check.
	if _, err := uc.GetAccount(context.Background(), 101); err != nil {
		t.Fatalf("fresh account failed verification: %v", err)
	}
}

func TestAccountUseCaseGetAccountTamper(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	signer := signing.NewSHA256Signer()
	uc := usecase.NewAccountUseCase(accountRepo, signer, nil)

	a := &domain.Account{
		UID:         7,
		UIN:         "9001000007",
		Symbol:      domain.SymbolAsset,
		Currency:    "CNY",
		BalanceType: domain.BalanceTypeDebit,
		Balance:     decimal.NewFromInt(100),
	}
	a.Signature = signer.Digest(a.SignPayload())
	a.Balance = decimal.NewFromInt(100000)
	accountRepo.Seed(a)

	if _, err := uc.GetAccount(context.Background(), 7); !errors.Is(err, domain.ErrTamperDetected) {
		t.Fatalf("expected ErrTamperDetected, got %v", err)
	}
}

func TestAccountUseCaseCreateAccountSignsPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	signer := mocks.NewMockSigner(ctrl)
	signer.EXPECT().Digest(gomock.Any()).Return("fixed-signature")

	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), signer, nil)

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		UID:         101,
		UIN:         "9001000101",
		Symbol:      domain.SymbolAsset,
		Currency:    "CNY",
		LedgerType:  domain.LedgerTypeUser,
		BalanceType: domain.BalanceTypeDebit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Signature != "fixed-signature" {
		t.Errorf("signature = %q, want the signer output", account.Signature)
	}
}

func TestAccountUseCaseGetAccountNotFound(t *testing.T) {
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), signing.NewSHA256Signer(), nil)

	if _, err := uc.GetAccount(context.Background(), 999); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
