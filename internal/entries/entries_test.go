package entries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbean/smartbean/internal/model"
)

func txn(payee string, accounts ...string) *model.Transaction {
	postings := make([]model.Posting, len(accounts))
	for i, account := range accounts {
		postings[i] = model.Posting{Account: account}
	}
	return &model.Transaction{
		Date:      time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		Payee:     payee,
		Narration: "test",
		Postings:  postings,
	}
}

func TestSetPayee(t *testing.T) {
	tests := []struct {
		name      string
		existing  string
		predicted string
		overwrite bool
		want      string
	}{
		{"fills empty payee", "", "Acme", false, "Acme"},
		{"keeps existing without overwrite", "Original", "Acme", false, "Original"},
		{"replaces existing with overwrite", "Original", "Acme", true, "Acme"},
		{"empty prediction is a no-op", "Original", "", true, "Original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := txn(tt.existing, "Assets:Checking")
			got := SetPayee(original, tt.predicted, tt.overwrite)
			assert.Equal(t, tt.want, got.Payee)
			assert.Equal(t, tt.existing, original.Payee)
		})
	}
}

func TestAddPosting(t *testing.T) {
	single := txn("", "Assets:Checking")
	got := AddPosting(single, "Expenses:Food:Groceries")

	require.Len(t, got.Postings, 2)
	assert.Equal(t, "Expenses:Food:Groceries", got.Postings[1].Account)
	assert.Len(t, single.Postings, 1, "original must not be mutated")
}

func TestAddPostingLeavesBalancedTransactions(t *testing.T) {
	balanced := txn("", "Assets:Checking", "Expenses:Rent")
	got := AddPosting(balanced, "Expenses:Food:Groceries")

	assert.Same(t, balanced, got)
	assert.Len(t, got.Postings, 2)
}

func TestAttachSuggestions(t *testing.T) {
	original := txn("", "Assets:Checking")
	suggestions := []string{"Expenses:Food", "Expenses:Rent"}

	got := AttachSuggestions(original, model.MetaSuggestedAccounts, suggestions)

	require.NotNil(t, got.Meta)
	assert.Equal(t, suggestions, got.Meta[model.MetaSuggestedAccounts])
	assert.NotContains(t, original.Meta, model.MetaSuggestedAccounts)

	// Empty suggestion lists attach nothing.
	same := AttachSuggestions(original, model.MetaSuggestedAccounts, nil)
	assert.Same(t, original, same)
}

func TestMergeTransactions(t *testing.T) {
	open := &model.Open{Account: "Assets:Checking"}
	note := &model.Note{Comment: "statement gap"}
	first := txn("", "Assets:Checking")
	second := txn("", "Assets:Savings")
	imported := []model.Directive{open, first, note, second}

	enhancedFirst := AddPosting(first, "Expenses:Food")
	enhancedSecond := AddPosting(second, "Expenses:Rent")

	merged := MergeTransactions(imported, []*model.Transaction{enhancedFirst, enhancedSecond})

	require.Len(t, merged, 4)
	assert.Same(t, open, merged[0])
	assert.Same(t, enhancedFirst, merged[1].(*model.Transaction))
	assert.Same(t, note, merged[2])
	assert.Same(t, enhancedSecond, merged[3].(*model.Transaction))
}
