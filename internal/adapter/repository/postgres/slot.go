package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	getValueSQL = `SELECT value FROM kv_store WHERE key = $1`
	putValueSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Slot implements kv.Slot as rows of the kv_store table.
type Slot struct {
	db      querier
	retrier *Retrier
}

// NewSlot creates a new Slot.
func NewSlot(pool *pgxpool.Pool, retrier *Retrier) *Slot {
	return newSlotWithQuerier(pool, retrier)
}

func newSlotWithQuerier(db querier, retrier *Retrier) *Slot {
	return &Slot{db: db, retrier: retrier}
}

// Get returns the stored value and whether the row exists.
func (s *Slot) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := s.retrier.Retry(ctx, "get", func() error {
		err := s.db.QueryRow(ctx, getValueSQL, key).Scan(&value)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}

	return value, found, nil
}

// Set upserts the row.
func (s *Slot) Set(ctx context.Context, key, value string) error {
	return s.retrier.Retry(ctx, "set", func() error {
		_, err := s.db.Exec(ctx, putValueSQL, key, value)
		return err
	})
}
