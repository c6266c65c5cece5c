package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one settlement transaction so a stuck
	// lock wait cannot hold account rows indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long HTTP-layer idempotency responses are
	// cached. The instruction table is the durable idempotency record; the
	// cache only short-circuits identical retries.
	IdempotencyKeyTTL = 24 * time.Hour
)
