package domain

import (
	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry.
// A negative amount is an expense, a positive amount is income.
type Transaction struct {
	ID     string
	Title  string
	Amount decimal.Decimal
}

// IsIncome reports whether the transaction adds to the balance.
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction subtracts from the balance.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// Kinds shown next to each transaction.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// KindOf classifies an amount for display. Only strictly positive amounts
// are income; zero is shown as an expense.
func KindOf(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return KindIncome
	}
	return KindExpense
}
