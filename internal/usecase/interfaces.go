package usecase

import (
	"context"
	"time"

	"github.com/iho/goexpense/internal/domain"
)

// Store persists the full transaction list in a single slot.
type Store interface {
	// Load returns the stored transactions, or an empty slice when nothing was saved yet.
	Load(ctx context.Context) ([]*domain.Transaction, error)
	// Save overwrites the slot with transactions. Last writer wins.
	Save(ctx context.Context, transactions []*domain.Transaction) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Publisher announces ledger changes to external systems.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
