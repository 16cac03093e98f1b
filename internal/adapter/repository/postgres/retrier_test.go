package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func newFastRetrier(maxRetries uint64) *Retrier {
	return NewRetrier(RetryPolicy{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  100 * time.Millisecond,
	}, zerolog.Nop())
}

func TestRetryPolicyDefaults(t *testing.T) {
	r := NewRetrier(RetryPolicy{MaxRetries: 7}, zerolog.Nop())

	if r.policy.MaxRetries != 7 {
		t.Fatalf("expected explicit max retries to be kept, got %d", r.policy.MaxRetries)
	}
	if r.policy.InitialInterval != DefaultRetryPolicy().InitialInterval {
		t.Fatalf("expected default initial interval, got %s", r.policy.InitialInterval)
	}
}

func TestRetrierAttempts(t *testing.T) {
	deadlock := &pgconn.PgError{Code: pgErrDeadlock}
	serialization := &pgconn.PgError{Code: pgErrSerializationFailure}
	permanent := errors.New("permanent")

	tests := []struct {
		name         string
		maxRetries   uint64
		failures     []error
		wantErr      error
		wantAttempts int
	}{
		{name: "recovers after deadlock", maxRetries: 2, failures: []error{deadlock}, wantAttempts: 2},
		{name: "gives up after max retries", maxRetries: 2, failures: []error{serialization, serialization, serialization, serialization}, wantErr: serialization, wantAttempts: 3},
		{name: "stops on permanent error", maxRetries: 3, failures: []error{permanent}, wantErr: permanent, wantAttempts: 1},
		{name: "succeeds first time", maxRetries: 3, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := newFastRetrier(tt.maxRetries).Retry(context.Background(), "set", func() error {
				attempts++
				if attempts <= len(tt.failures) {
					return tt.failures[attempts-1]
				}
				return nil
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if attempts != tt.wantAttempts {
				t.Fatalf("expected %d attempts, got %d", tt.wantAttempts, attempts)
			}
		})
	}
}

func TestRetrierStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := newFastRetrier(5).Retry(ctx, "get", func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	if err == nil {
		t.Fatalf("expected error with cancelled context")
	}
	if attempts > 1 {
		t.Fatalf("expected no retries after cancellation, got %d attempts", attempts)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, true},
		{"serialization failure", &pgconn.PgError{Code: pgErrSerializationFailure}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"generic", errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Fatalf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
