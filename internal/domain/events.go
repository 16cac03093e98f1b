package domain

import "time"

// Event types
const (
	EventTypeTransactionAdded   = "transaction.added"
	EventTypeTransactionRemoved = "transaction.removed"
)

// Event is a ledger change announced to subscribers.
type Event struct {
	Type       string
	OccurredAt time.Time
	Payload    any
}

// TransactionAddedEvent payload
type TransactionAddedEvent struct {
	TransactionID string `json:"transaction_id"`
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	Balance       string `json:"balance"`
}

// TransactionRemovedEvent payload
type TransactionRemovedEvent struct {
	TransactionID string `json:"transaction_id"`
	Balance       string `json:"balance"`
}

// NewTransactionAddedEvent builds the event emitted after an add.
func NewTransactionAddedEvent(tx *Transaction, balance string, at time.Time) Event {
	return Event{
		Type:       EventTypeTransactionAdded,
		OccurredAt: at,
		Payload: TransactionAddedEvent{
			TransactionID: tx.ID,
			Title:         tx.Title,
			Amount:        tx.Amount.String(),
			Balance:       balance,
		},
	}
}

// NewTransactionRemovedEvent builds the event emitted after a remove.
func NewTransactionRemovedEvent(id, balance string, at time.Time) Event {
	return Event{
		Type:       EventTypeTransactionRemoved,
		OccurredAt: at,
		Payload: TransactionRemovedEvent{
			TransactionID: id,
			Balance:       balance,
		},
	}
}
