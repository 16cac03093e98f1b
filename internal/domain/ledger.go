package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCelebrationThreshold is the balance at which the ledger starts celebrating.
const DefaultCelebrationThreshold = 10000

// Ledger is an immutable, newest-first list of transactions.
// Mutating methods return a new Ledger and leave the receiver untouched.
type Ledger struct {
	txs []*Transaction
}

// NewLedger builds a ledger from transactions in iteration order.
func NewLedger(txs []*Transaction) Ledger {
	cp := make([]*Transaction, len(txs))
	copy(cp, txs)
	return Ledger{txs: cp}
}

// Prepend returns a ledger with tx as its first record.
func (l Ledger) Prepend(tx *Transaction) Ledger {
	txs := make([]*Transaction, 0, len(l.txs)+1)
	txs = append(txs, tx)
	txs = append(txs, l.txs...)
	return Ledger{txs: txs}
}

// Without returns a ledger without the first record matching id.
// The second return value is false when no record matched.
func (l Ledger) Without(id string) (Ledger, bool) {
	for i, tx := range l.txs {
		if tx.ID != id {
			continue
		}
		txs := make([]*Transaction, 0, len(l.txs)-1)
		txs = append(txs, l.txs[:i]...)
		txs = append(txs, l.txs[i+1:]...)
		return Ledger{txs: txs}, true
	}
	return l, false
}

// Find returns the record with the given id.
func (l Ledger) Find(id string) (*Transaction, error) {
	for _, tx := range l.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, ErrTransactionNotFound
}

// Len returns the number of records.
func (l Ledger) Len() int {
	return len(l.txs)
}

// Transactions returns a copy of the records, newest first.
func (l Ledger) Transactions() []*Transaction {
	cp := make([]*Transaction, len(l.txs))
	copy(cp, l.txs)
	return cp
}

// Balance sums all amounts.
func (l Ledger) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.txs {
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// Income sums the positive amounts.
func (l Ledger) Income() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.txs {
		if tx.IsIncome() {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// Expense sums the negative amounts. The result is zero or negative.
func (l Ledger) Expense() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.txs {
		if tx.IsExpense() {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// Validate checks that every id is present and unique.
func (l Ledger) Validate() error {
	seen := make(map[string]struct{}, len(l.txs))
	for i, tx := range l.txs {
		if tx.ID == "" {
			return fmt.Errorf("%w: record %d", ErrEmptyID, i)
		}
		if _, ok := seen[tx.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}
	return nil
}

// Celebrates reports whether balance has reached threshold.
func Celebrates(balance, threshold decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(threshold)
}
