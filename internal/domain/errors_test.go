package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("account 9001000042: %w", domain.ErrInsufficientFunds)

	if kind := domain.KindOf(wrapped); kind != domain.KindInsufficientFunds {
		t.Errorf("expected KindInsufficientFunds, got %d", kind)
	}

	if !errors.Is(wrapped, domain.ErrInsufficientFunds) {
		t.Error("errors.Is failed on wrapped sentinel")
	}
}

func TestKindOfUnknown(t *testing.T) {
	if kind := domain.KindOf(errors.New("plain")); kind != domain.KindUnknown {
		t.Errorf("expected KindUnknown, got %d", kind)
	}

	if kind := domain.KindOf(nil); kind != domain.KindUnknown {
		t.Errorf("expected KindUnknown for nil, got %d", kind)
	}
}

func TestSentinelKinds(t *testing.T) {
	tests := []struct {
		err  *domain.Error
		kind domain.Kind
	}{
		{domain.ErrParamConflict, domain.KindParamConflict},
		{domain.ErrIllegalTransition, domain.KindIllegalTransition},
		{domain.ErrAlreadyCompleted, domain.KindAlreadyCompleted},
		{domain.ErrAccountNotFound, domain.KindNotFound},
		{domain.ErrInstructionNotFound, domain.KindNotFound},
		{domain.ErrTamperDetected, domain.KindTamper},
		{domain.ErrAffectedRows, domain.KindAffectedRows},
		{domain.ErrBadBranch, domain.KindBadBranch},
	}

	for _, tt := range tests {
		if tt.err.Kind() != tt.kind {
			t.Errorf("%v: expected kind %d, got %d", tt.err, tt.kind, tt.err.Kind())
		}
	}
}
