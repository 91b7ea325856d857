package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSortedByDate(t *testing.T) {
	entries := []Directive{
		&Transaction{Date: date("2024-03-05"), Narration: "later"},
		&Open{Date: date("2024-01-01"), Account: "Assets:Checking"},
		&Transaction{Date: date("2024-02-01"), Narration: "earlier"},
	}

	sorted := SortedByDate(entries)

	require.Len(t, sorted, 3)
	assert.IsType(t, &Open{}, sorted[0])
	assert.Equal(t, "earlier", sorted[1].(*Transaction).Narration)
	assert.Equal(t, "later", sorted[2].(*Transaction).Narration)

	// Input order is untouched.
	assert.Equal(t, "later", entries[0].(*Transaction).Narration)
}

func TestFilterTransactions(t *testing.T) {
	entries := []Directive{
		&Open{Date: date("2024-01-01"), Account: "Assets:Checking"},
		&Transaction{Date: date("2024-01-02"), Narration: "one"},
		&Balance{Date: date("2024-01-03"), Account: "Assets:Checking"},
		&Transaction{Date: date("2024-01-04"), Narration: "two"},
	}

	txns := FilterTransactions(entries)

	require.Len(t, txns, 2)
	assert.Equal(t, "one", txns[0].Narration)
	assert.Equal(t, "two", txns[1].Narration)
}

func TestTransactionClone(t *testing.T) {
	amount := decimal.NewFromInt(-25)
	original := &Transaction{
		Date:      date("2024-01-02"),
		Narration: "Groceries",
		Meta:      Meta{"source": "csv"},
		Postings:  []Posting{{Account: "Assets:Checking", Amount: &amount, Currency: "USD"}},
	}

	clone := original.Clone()
	clone.Postings = append(clone.Postings, Posting{Account: "Expenses:Food"})
	clone.Meta["extra"] = true

	assert.Len(t, original.Postings, 1)
	assert.NotContains(t, original.Meta, "extra")
	assert.Equal(t, "Groceries", clone.Narration)
}

func TestInvolvesAccount(t *testing.T) {
	txn := &Transaction{Postings: []Posting{
		{Account: "Assets:US:Checking"},
		{Account: "Expenses:Food:Groceries"},
	}}

	tests := []struct {
		account string
		want    bool
	}{
		{"", true},
		{"Assets:US:Checking", true},
		{"Assets:US", true},
		{"Assets:USAA", false},
		{"Expenses:Food", true},
		{"Liabilities", false},
	}

	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			assert.Equal(t, tt.want, txn.InvolvesAccount(tt.account))
		})
	}
}
