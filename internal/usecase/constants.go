package usecase

import "time"

const (
	// DefaultStoreTimeout bounds a single load or save against the slot.
	DefaultStoreTimeout = 10 * time.Second

	// DefaultPublishTimeout bounds event delivery after a mutation.
	DefaultPublishTimeout = 2 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request is still running.
	IdempotencyPending = "processing"
)
