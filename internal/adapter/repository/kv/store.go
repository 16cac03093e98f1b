package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goexpense/internal/domain"
)

// DefaultKey is the slot name the transaction list is stored under.
const DefaultKey = "transactions"

// Slot is raw access to a single named value in a key-value backend.
type Slot interface {
	// Get returns the value and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value unconditionally.
	Set(ctx context.Context, key, value string) error
}

// Metrics receives store operation measurements.
type Metrics interface {
	StoreOperation(op string, duration time.Duration, err error)
}

// Config holds Store settings.
type Config struct {
	Key           string
	SkipMalformed bool
	Metrics       Metrics // optional
	Logger        zerolog.Logger
}

// Store implements usecase.Store on top of a Slot.
type Store struct {
	slot    Slot
	key     string
	codec   Codec
	metrics Metrics
	logger  zerolog.Logger
}

// NewStore creates a new Store.
func NewStore(slot Slot, cfg Config) *Store {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}

	return &Store{
		slot:    slot,
		key:     cfg.Key,
		codec:   Codec{SkipMalformed: cfg.SkipMalformed, Logger: cfg.Logger},
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Load reads the slot. A missing slot yields an empty list.
func (s *Store) Load(ctx context.Context) (txs []*domain.Transaction, err error) {
	defer s.observe("load", time.Now(), &err)

	value, found, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", s.key, err)
	}

	if !found {
		s.logger.Debug().Str("key", s.key).Msg("slot empty, starting with no transactions")
		return []*domain.Transaction{}, nil
	}

	return s.codec.Decode(value)
}

// Save encodes the full list and overwrites the slot.
func (s *Store) Save(ctx context.Context, txs []*domain.Transaction) (err error) {
	defer s.observe("save", time.Now(), &err)

	value, err := s.codec.Encode(txs)
	if err != nil {
		return err
	}

	if err := s.slot.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.key, err)
	}

	return nil
}

func (s *Store) observe(op string, start time.Time, errp *error) {
	if s.metrics != nil {
		s.metrics.StoreOperation(op, time.Since(start), *errp)
	}
}
