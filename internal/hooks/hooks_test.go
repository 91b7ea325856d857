package hooks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbean/smartbean/internal/model"
	"github.com/smartbean/smartbean/internal/predictor"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func txn(d int, narration string, amount int64) *model.Transaction {
	value := decimal.NewFromInt(amount)
	return &model.Transaction{
		Date:      day(d),
		Narration: narration,
		Meta:      model.Meta{},
		Postings: []model.Posting{
			{Account: "Assets:Checking", Amount: &value, Currency: "USD"},
		},
	}
}

func TestDuplicateDetectorMarksMatches(t *testing.T) {
	existing := []model.Directive{txn(10, "COFFEE SHOP #42", -5)}
	imported := []model.Directive{
		txn(11, "Coffee Shop 42", -5),  // same event, within window
		txn(11, "Coffee Shop 42", -9),  // different amount
		txn(20, "COFFEE SHOP #42", -5), // outside window
	}

	out, err := NewDuplicateDetector().Apply("stmt.csv", "Assets:Checking", imported, existing)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, true, out[0].(*model.Transaction).Meta[model.MetaDuplicate])
	assert.NotContains(t, out[1].(*model.Transaction).Meta, model.MetaDuplicate)
	assert.NotContains(t, out[2].(*model.Transaction).Meta, model.MetaDuplicate)

	// The imported transaction itself is never mutated.
	assert.NotContains(t, imported[0].(*model.Transaction).Meta, model.MetaDuplicate)
}

func TestDuplicateDetectorPassesNonTransactions(t *testing.T) {
	note := &model.Note{Date: day(1), Comment: "x"}
	out, err := NewDuplicateDetector().Apply("f", "", []model.Directive{note}, nil)
	require.NoError(t, err)
	assert.Same(t, note, out[0])
}

func TestTrimmerDropsOldDuplicates(t *testing.T) {
	existing := []model.Directive{
		&model.Balance{Date: day(15), Account: "Assets:Checking", Amount: decimal.NewFromInt(100), Currency: "USD"},
	}
	oldDuplicate := txn(10, "already booked", -5)
	oldDuplicate.Meta[model.MetaDuplicate] = true
	oldFresh := txn(12, "missed somehow", -7)
	recent := txn(20, "new purchase", -9)
	note := &model.Note{Date: day(5), Comment: "kept"}

	out, err := NewOldEntryTrimmer().Apply("f", "", []model.Directive{oldDuplicate, oldFresh, recent, note}, existing)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Same(t, oldFresh, out[0])
	assert.Same(t, recent, out[1])
	assert.Same(t, note, out[2])
}

func TestTrimmerTrimsAllOldWhenConfigured(t *testing.T) {
	existing := []model.Directive{
		&model.Balance{Date: day(15), Account: "Assets:Checking", Amount: decimal.NewFromInt(100), Currency: "USD"},
	}
	trimmer := &OldEntryTrimmer{OnlyTrimDuplicates: false}

	out, err := trimmer.Apply("f", "", []model.Directive{txn(10, "old", -5), txn(16, "new", -6)}, existing)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].(*model.Transaction).Narration)
}

func TestTrimmerWithoutBalancesKeepsEverything(t *testing.T) {
	imported := []model.Directive{txn(1, "anything", -5)}
	out, err := NewOldEntryTrimmer().Apply("f", "", imported, nil)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestApplyAllComposesInOrder(t *testing.T) {
	existing := []model.Directive{
		&model.Open{Date: day(1), Account: "Assets:Checking"},
		&model.Balance{Date: day(15), Account: "Assets:Checking", Amount: decimal.NewFromInt(100), Currency: "USD"},
		txn(10, "COFFEE SHOP #42", -5),
	}
	imported := []model.Directive{
		txn(10, "Coffee Shop 42", -5), // duplicate and old: trimmed
		txn(20, "new purchase", -9),
	}

	hooks := []Hook{NewDuplicateDetector(), NewOldEntryTrimmer()}
	out, err := ApplyAll(hooks, "stmt.csv", "Assets:Checking", imported, existing)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "new purchase", out[0].(*model.Transaction).Narration)
}

func TestPredictorHookPassesThroughOnEmptyHistory(t *testing.T) {
	hook := PredictorHook{Predictor: predictor.NewPostings(predictor.DefaultOptions())}
	imported := []model.Directive{txn(20, "new purchase", -9)}

	out, err := hook.Apply("stmt.csv", "Assets:Checking", imported, nil)
	require.NoError(t, err)
	assert.Same(t, imported[0], out[0])
}
