package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func tx(id, title string, amount int64) *Transaction {
	return &Transaction{ID: id, Title: title, Amount: decimal.NewFromInt(amount)}
}

func TestLedger_PrependIsNewestFirst(t *testing.T) {
	l := NewLedger([]*Transaction{tx("1", "Salary", 20000)})
	next := l.Prepend(tx("2", "Rent", -5000))

	got := next.Transactions()
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected [2 1], got %+v", got)
	}

	if l.Len() != 1 {
		t.Fatalf("expected original ledger untouched, got len %d", l.Len())
	}

	if !next.Balance().Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("expected balance 15000, got %s", next.Balance())
	}
}

func TestLedger_Without(t *testing.T) {
	l := NewLedger([]*Transaction{tx("a", "Coffee", -50), tx("b", "Salary", 100)})

	next, removed := l.Without("a")
	if !removed {
		t.Fatalf("expected a to be removed")
	}
	if next.Len() != 1 || next.Transactions()[0].ID != "b" {
		t.Fatalf("expected only b to remain, got %+v", next.Transactions())
	}
	if !next.Balance().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100, got %s", next.Balance())
	}

	again, removed := next.Without("a")
	if removed {
		t.Fatalf("expected second remove to be a no-op")
	}
	if again.Len() != next.Len() || !again.Balance().Equal(next.Balance()) {
		t.Fatalf("expected state unchanged after second remove")
	}
}

func TestLedger_BalanceEmpty(t *testing.T) {
	var l Ledger
	if !l.Balance().IsZero() {
		t.Fatalf("expected zero balance, got %s", l.Balance())
	}
}

func TestLedger_BalanceOrderIndependent(t *testing.T) {
	amounts := []string{"0.1", "0.2", "-0.3", "19999.99", "-0.01", "12.345", "-7"}
	var txs []*Transaction
	for i, a := range amounts {
		txs = append(txs, &Transaction{ID: fmt.Sprint(i), Amount: decimal.RequireFromString(a)})
	}

	want := NewLedger(txs).Balance()
	if !want.Equal(decimal.RequireFromString("20004.325")) {
		t.Fatalf("unexpected balance %s", want)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
		if got := NewLedger(txs).Balance(); !got.Equal(want) {
			t.Fatalf("shuffle %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestLedger_IncomeAndExpense(t *testing.T) {
	l := NewLedger([]*Transaction{tx("1", "Salary", 20000), tx("2", "Rent", -5000), tx("3", "Zero", 0), tx("4", "Coffee", -50)})

	if !l.Income().Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("expected income 20000, got %s", l.Income())
	}
	if !l.Expense().Equal(decimal.NewFromInt(-5050)) {
		t.Fatalf("expected expense -5050, got %s", l.Expense())
	}
	if !l.Income().Add(l.Expense()).Equal(l.Balance()) {
		t.Fatalf("expected income + expense to equal balance")
	}
}

func TestLedger_Find(t *testing.T) {
	l := NewLedger([]*Transaction{tx("1", "Salary", 20000)})

	got, err := l.Find("1")
	if err != nil || got.Title != "Salary" {
		t.Fatalf("expected Salary, got %+v err=%v", got, err)
	}

	if _, err := l.Find("missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestLedger_TransactionsReturnsCopy(t *testing.T) {
	l := NewLedger([]*Transaction{tx("1", "Salary", 20000)})
	got := l.Transactions()
	got[0] = tx("x", "Other", 1)

	if l.Transactions()[0].ID != "1" {
		t.Fatalf("expected ledger to be unaffected by caller mutation")
	}
}

func TestLedger_Validate(t *testing.T) {
	tests := []struct {
		name    string
		txs     []*Transaction
		wantErr error
	}{
		{"empty", nil, nil},
		{"unique", []*Transaction{tx("1", "", 1), tx("2", "", 2)}, nil},
		{"empty id", []*Transaction{tx("", "", 1)}, ErrEmptyID},
		{"duplicate id", []*Transaction{tx("1", "", 1), tx("1", "", 2)}, ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLedger(tt.txs).Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCelebrates(t *testing.T) {
	threshold := decimal.NewFromInt(DefaultCelebrationThreshold)

	tests := []struct {
		balance string
		want    bool
	}{
		{"9999.99", false},
		{"10000", true},
		{"10000.01", true},
		{"-10000", false},
	}

	for _, tt := range tests {
		if got := Celebrates(decimal.RequireFromString(tt.balance), threshold); got != tt.want {
			t.Fatalf("Celebrates(%s) = %v, want %v", tt.balance, got, tt.want)
		}
	}
}
