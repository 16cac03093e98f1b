package dto

import (
	"encoding/json"
	"fmt"

	"github.com/iho/goexpense/internal/domain"
	"github.com/iho/goexpense/internal/usecase"
)

// CreateTransactionRequest represents a request to add a transaction.
// Amount may be sent as a JSON number or a numeric string.
type CreateTransactionRequest struct {
	Title  string          `json:"title"`
	Amount json.RawMessage `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() (usecase.AddTransactionInput, error) {
	raw, err := r.rawAmount()
	if err != nil {
		return usecase.AddTransactionInput{}, err
	}

	amount, err := domain.ParseAmount(raw)
	if err != nil {
		return usecase.AddTransactionInput{}, err
	}

	return usecase.AddTransactionInput{
		Title:  r.Title,
		Amount: amount,
	}, nil
}

func (r *CreateTransactionRequest) rawAmount() (string, error) {
	if len(r.Amount) == 0 || string(r.Amount) == "null" {
		return "", fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}

	if r.Amount[0] == '"' {
		var s string
		if err := json.Unmarshal(r.Amount, &s); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(r.Amount, &n); err != nil {
		return "", fmt.Errorf("%w: amount must be a number or numeric string", domain.ErrInvalidAmount)
	}

	return n.String(), nil
}
