package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
		{"/api/v1/accounts/101", "/api/v1/accounts/:id"},
		{"/api/v1/accounts/101/entries", "/api/v1/accounts/:id/entries"},
		{"/api/v1/settlements/L-20260828-0001/entries", "/api/v1/settlements/:id/entries"},
		{"/api/v1/ledger/consistency", "/api/v1/ledger/consistency"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
