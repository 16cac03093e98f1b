package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goexpense/internal/domain"
)

// LedgerMetrics receives ledger-level measurements.
type LedgerMetrics interface {
	TransactionAdded(amount decimal.Decimal)
	TransactionRemoved()
	LedgerState(balance decimal.Decimal, count int)
}

// LedgerConfig holds dependencies for LedgerUseCase.
type LedgerConfig struct {
	Store     Store
	IDGen     IDGenerator
	Publisher Publisher     // optional
	Clock     Clock         // defaults to the system clock
	Metrics   LedgerMetrics // optional
	Logger    zerolog.Logger

	// CelebrationThreshold defaults to domain.DefaultCelebrationThreshold.
	CelebrationThreshold decimal.Decimal
}

// LedgerUseCase is the in-memory authoritative view of the transactions for
// the running process. Every mutation is mirrored to the store before it
// becomes visible.
type LedgerUseCase struct {
	store     Store
	idGen     IDGenerator
	publisher Publisher
	clock     Clock
	metrics   LedgerMetrics
	logger    zerolog.Logger
	threshold decimal.Decimal

	mu     sync.RWMutex
	ledger domain.Ledger
}

// NewLedgerUseCase creates a new LedgerUseCase with an empty ledger.
// Call Initialize to populate it from the store.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.CelebrationThreshold.IsZero() {
		cfg.CelebrationThreshold = decimal.NewFromInt(domain.DefaultCelebrationThreshold)
	}

	return &LedgerUseCase{
		store:     cfg.Store,
		idGen:     cfg.IDGen,
		publisher: cfg.Publisher,
		clock:     cfg.Clock,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		threshold: cfg.CelebrationThreshold,
	}
}

// AddTransactionInput represents input for adding a transaction.
type AddTransactionInput struct {
	Title  string
	Amount decimal.Decimal
}

// Summary is the balance header shown above the transaction list.
type Summary struct {
	Balance   decimal.Decimal
	Income    decimal.Decimal
	Expense   decimal.Decimal
	Count     int
	Celebrate bool
	Threshold decimal.Decimal
}

// Initialize loads the ledger from the store, replacing the in-memory state.
func (uc *LedgerUseCase) Initialize(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	txs, err := uc.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	ledger := domain.NewLedger(txs)
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}

	uc.ledger = ledger
	uc.observeState()

	uc.logger.Debug().Int("count", ledger.Len()).Msg("ledger loaded")

	return nil
}

// Refresh reloads the ledger from the store. It is not a sync: the result
// differs from the current state only if the slot was written by someone else.
func (uc *LedgerUseCase) Refresh(ctx context.Context) error {
	return uc.Initialize(ctx)
}

// Add creates a transaction, places it first and persists the full list.
// The in-memory ledger is only updated once the save succeeds.
func (uc *LedgerUseCase) Add(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	tx := &domain.Transaction{
		ID:     uc.idGen.Generate(),
		Title:  input.Title,
		Amount: input.Amount,
	}

	if _, err := uc.ledger.Find(tx.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateID, tx.ID)
	}

	next := uc.ledger.Prepend(tx)
	if err := uc.save(ctx, next); err != nil {
		return nil, err
	}
	uc.ledger = next

	if uc.metrics != nil {
		uc.metrics.TransactionAdded(tx.Amount)
	}
	uc.observeState()
	uc.publish(ctx, domain.NewTransactionAddedEvent(tx, next.Balance().String(), uc.clock.Now().UTC()))

	return tx, nil
}

// Remove deletes the transaction with the given id and persists the rest.
// Removing an unknown id is a no-op and does not touch the store.
func (uc *LedgerUseCase) Remove(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	next, removed := uc.ledger.Without(id)
	if !removed {
		uc.logger.Debug().Str("transaction_id", id).Msg("remove of unknown transaction ignored")
		return nil
	}

	if err := uc.save(ctx, next); err != nil {
		return err
	}
	uc.ledger = next

	if uc.metrics != nil {
		uc.metrics.TransactionRemoved()
	}
	uc.observeState()
	uc.publish(ctx, domain.NewTransactionRemovedEvent(id, next.Balance().String(), uc.clock.Now().UTC()))

	return nil
}

// Get returns a single transaction by id.
func (uc *LedgerUseCase) Get(id string) (*domain.Transaction, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.ledger.Find(id)
}

// Transactions returns the current transactions, newest first.
func (uc *LedgerUseCase) Transactions() []*domain.Transaction {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.ledger.Transactions()
}

// Balance returns the sum of all current amounts.
func (uc *LedgerUseCase) Balance() decimal.Decimal {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.ledger.Balance()
}

// Summary returns the balance header for the current ledger.
func (uc *LedgerUseCase) Summary() Summary {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	balance := uc.ledger.Balance()

	return Summary{
		Balance:   balance,
		Income:    uc.ledger.Income(),
		Expense:   uc.ledger.Expense(),
		Count:     uc.ledger.Len(),
		Celebrate: domain.Celebrates(balance, uc.threshold),
		Threshold: uc.threshold,
	}
}

func (uc *LedgerUseCase) save(ctx context.Context, next domain.Ledger) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	if err := uc.store.Save(ctx, next.Transactions()); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	return nil
}

func (uc *LedgerUseCase) publish(ctx context.Context, event domain.Event) {
	if uc.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultPublishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to publish ledger event")
	}
}

// observeState must be called with mu held.
func (uc *LedgerUseCase) observeState() {
	if uc.metrics != nil {
		uc.metrics.LedgerState(uc.ledger.Balance(), uc.ledger.Len())
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
