package kv

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goexpense/internal/domain"
)

// Codec converts the transaction list to and from its stored text form:
// a JSON array of {"id","title","amount"} objects with amount as a number.
type Codec struct {
	// SkipMalformed drops records that fail to decode instead of failing the
	// whole load. A value that is not a JSON array still fails.
	SkipMalformed bool
	Logger        zerolog.Logger
}

type encodedRecord struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Amount json.Number `json:"amount"`
}

type decodedRecord struct {
	ID     *string         `json:"id"`
	Title  *string         `json:"title"`
	Amount json.RawMessage `json:"amount"`
}

// Encode serializes transactions in iteration order.
func (c Codec) Encode(txs []*domain.Transaction) (string, error) {
	records := make([]encodedRecord, len(txs))
	for i, tx := range txs {
		records[i] = encodedRecord{
			ID:     tx.ID,
			Title:  tx.Title,
			Amount: json.Number(tx.Amount.String()),
		}
	}

	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode transactions: %w", err)
	}

	return string(b), nil
}

// Decode parses the stored text. Errors wrap domain.ErrMalformedSnapshot.
func (c Codec) Decode(value string) ([]*domain.Transaction, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}

	txs := make([]*domain.Transaction, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, item := range raw {
		tx, err := decodeRecord(item)
		if err == nil {
			if _, dup := seen[tx.ID]; dup {
				err = fmt.Errorf("%w: %s", domain.ErrDuplicateID, tx.ID)
			}
		}

		if err != nil {
			if c.SkipMalformed {
				c.Logger.Warn().Err(err).Int("index", i).Msg("skipping malformed stored transaction")
				continue
			}
			return nil, fmt.Errorf("%w: record %d: %w", domain.ErrMalformedSnapshot, i, err)
		}

		seen[tx.ID] = struct{}{}
		txs = append(txs, tx)
	}

	return txs, nil
}

func decodeRecord(item json.RawMessage) (*domain.Transaction, error) {
	var rec decodedRecord
	if err := json.Unmarshal(item, &rec); err != nil {
		return nil, err
	}

	if rec.ID == nil || *rec.ID == "" {
		return nil, domain.ErrEmptyID
	}

	if len(rec.Amount) == 0 || bytes.Equal(rec.Amount, []byte("null")) {
		return nil, fmt.Errorf("%w: missing", domain.ErrInvalidAmount)
	}

	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(rec.Amount); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidAmount, err)
	}

	tx := &domain.Transaction{
		ID:     *rec.ID,
		Amount: amount,
	}
	if rec.Title != nil {
		tx.Title = *rec.Title
	}

	return tx, nil
}
