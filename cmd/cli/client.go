package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type transaction struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

type transactionList struct {
	Transactions []transaction   `json:"transactions"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int             `json:"count"`
}

type balance struct {
	Balance   decimal.Decimal `json:"balance"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Count     int             `json:"count"`
	Celebrate bool            `json:"celebrate"`
	Threshold decimal.Decimal `json:"threshold"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// apiClient talks to the GoExpense HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) List(ctx context.Context) (*transactionList, error) {
	var out transactionList
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Add(ctx context.Context, title, amount string) (*transaction, error) {
	body := map[string]string{"title": title, "amount": amount}

	var out transaction
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/transactions/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

func (c *apiClient) Balance(ctx context.Context) (*balance, error) {
	var out balance
	if err := c.do(ctx, http.MethodGet, "/api/v1/balance", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Refresh(ctx context.Context) (*transactionList, error) {
	var out transactionList
	if err := c.do(ctx, http.MethodPost, "/api/v1/refresh", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, in any, wantStatus int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
