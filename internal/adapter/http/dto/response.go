package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goexpense/internal/domain"
	"github.com/iho/goexpense/internal/infrastructure/idgen"
	"github.com/iho/goexpense/internal/usecase"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`

	// CreatedAt is derived from ULID ids; records with other ids omit it.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:     tx.ID,
		Title:  tx.Title,
		Amount: tx.Amount,
		Kind:   domain.KindOf(tx.Amount),
	}
	if at, err := idgen.CreatedAt(tx.ID); err == nil {
		resp.CreatedAt = &at
	}

	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// TransactionListResponse is the list view with its balance header.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Balance      decimal.Decimal        `json:"balance"`
	Count        int                    `json:"count"`
}

// NewTransactionListResponse builds the list view from the current transactions.
func NewTransactionListResponse(txs []*domain.Transaction) *TransactionListResponse {
	return &TransactionListResponse{
		Transactions: TransactionsFromDomain(txs),
		Balance:      domain.NewLedger(txs).Balance(),
		Count:        len(txs),
	}
}

// BalanceResponse is the balance header.
type BalanceResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Count     int             `json:"count"`
	Celebrate bool            `json:"celebrate"`
	Threshold decimal.Decimal `json:"threshold"`
}

// BalanceFromSummary converts a ledger summary to response.
func BalanceFromSummary(s usecase.Summary) *BalanceResponse {
	return &BalanceResponse{
		Balance:   s.Balance,
		Income:    s.Income,
		Expense:   s.Expense,
		Count:     s.Count,
		Celebrate: s.Celebrate,
		Threshold: s.Threshold,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
