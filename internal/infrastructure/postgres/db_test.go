package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolInvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolPingFailure(t *testing.T) {
	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid.host.test:5432/db",
		MaxConns:       1,
		ConnectTimeout: 500 * time.Millisecond,
	}

	if _, err := NewPool(context.Background(), cfg); err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}
