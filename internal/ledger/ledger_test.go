package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbean/smartbean/internal/model"
)

const sampleLedger = `; personal ledger
option "title" "Example"

2024-01-01 open Assets:US:BofA:Checking USD
2024-01-01 open Expenses:Food:Groceries

2024-01-05 * "Farmer Fresh" "Buying groceries"
  Assets:US:BofA:Checking  -32.50 USD
  Expenses:Food:Groceries

2024-01-10 ! "Pending payment"
  category: "food"
  Assets:US:BofA:Checking  -4.20 USD

2024-01-31 balance Assets:US:BofA:Checking 963.30 USD
2024-02-01 note Assets:US:BofA:Checking "statement reconciled"
2024-02-02 close Expenses:Food:Groceries
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleLedger))
	require.NoError(t, err)
	require.Len(t, entries, 7)

	open := entries[0].(*model.Open)
	assert.Equal(t, "Assets:US:BofA:Checking", open.Account)
	assert.Equal(t, []string{"USD"}, open.Currencies)
	assert.Nil(t, entries[1].(*model.Open).Currencies)

	txn := entries[2].(*model.Transaction)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), txn.Date)
	assert.Equal(t, "*", txn.Flag)
	assert.Equal(t, "Farmer Fresh", txn.Payee)
	assert.Equal(t, "Buying groceries", txn.Narration)
	require.Len(t, txn.Postings, 2)
	assert.True(t, txn.Postings[0].Amount.Equal(decimal.RequireFromString("-32.50")))
	assert.Equal(t, "USD", txn.Postings[0].Currency)
	assert.Equal(t, "Expenses:Food:Groceries", txn.Postings[1].Account)
	assert.Nil(t, txn.Postings[1].Amount)

	pending := entries[3].(*model.Transaction)
	assert.Equal(t, "!", pending.Flag)
	assert.Equal(t, "", pending.Payee)
	assert.Equal(t, "Pending payment", pending.Narration)
	assert.Equal(t, "food", pending.Meta["category"])

	balance := entries[4].(*model.Balance)
	assert.True(t, balance.Amount.Equal(decimal.RequireFromString("963.30")))
	assert.Equal(t, "USD", balance.Currency)

	note := entries[5].(*model.Note)
	assert.Equal(t, "statement reconciled", note.Comment)

	closed := entries[6].(*model.Close)
	assert.Equal(t, "Expenses:Food:Groceries", closed.Account)
}

func TestParseBadAmount(t *testing.T) {
	input := "2024-01-05 * \"x\"\n  Assets:Checking  12..0 USD\n"
	_, err := Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleLedger))
	require.NoError(t, err)

	var first strings.Builder
	require.NoError(t, Print(&first, entries))

	again, err := Parse(strings.NewReader(first.String()))
	require.NoError(t, err)
	require.Len(t, again, len(entries))

	// Printing normalizes amounts, so compare the canonical text forms.
	var second strings.Builder
	require.NoError(t, Print(&second, again))
	assert.Equal(t, first.String(), second.String())
}

func TestFormatSuggestionMetadata(t *testing.T) {
	amount := decimal.RequireFromString("-4.20")
	txn := &model.Transaction{
		Date:      time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Flag:      "*",
		Narration: "Coffee to go",
		Meta: model.Meta{
			model.MetaSuggestedAccounts: []string{"Expenses:Food:Coffee", "Expenses:Food:Groceries"},
		},
		Postings: []model.Posting{
			{Account: "Assets:US:BofA:Checking", Amount: &amount, Currency: "USD"},
			{Account: "Expenses:Food:Coffee"},
		},
	}

	got := Format(txn)
	assert.Contains(t, got, `2024-03-05 * "Coffee to go"`)
	assert.Contains(t, got, `__suggested_accounts__: "Expenses:Food:Coffee, Expenses:Food:Groceries"`)
	assert.Contains(t, got, "  Expenses:Food:Coffee\n")
}
