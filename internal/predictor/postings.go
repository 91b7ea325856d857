package predictor

import (
	"github.com/smartbean/smartbean/internal/entries"
	"github.com/smartbean/smartbean/internal/feature"
	"github.com/smartbean/smartbean/internal/model"
)

// NewPostings creates a predictor that completes the missing second posting
// of imported transactions with the most likely offsetting account.
func NewPostings(opts Options) *Predictor {
	return newPredictor(postingTarget{}, opts)
}

type postingTarget struct{}

func (postingTarget) name() string { return "posting account" }

func (postingTarget) descriptors() []feature.Descriptor {
	return []feature.Descriptor{
		{Attr: feature.AttrNarration, Weight: 0.8},
		{Attr: feature.AttrRefAccount, Weight: 0.8},
		// The payee is a near-constant feature unless the data actually
		// varies in it.
		{Attr: feature.AttrPayee, Weight: 0.5, Include: hasDistinctPayees},
		{Attr: feature.AttrDateDay, Weight: 0.1},
	}
}

func hasDistinctPayees(items []feature.TrainingItem) bool {
	payees := make(map[string]struct{})
	for _, item := range items {
		payees[item.Txn.Payee] = struct{}{}
		if len(payees) > 1 {
			return true
		}
	}
	return false
}

// trainingItems expands every transaction into one example per ordered
// (reference, other) posting pair with differing accounts, so the classifier
// learns which account accompanies a known one.
func (postingTarget) trainingItems(txns []*model.Transaction) ([]feature.TrainingItem, []string) {
	var items []feature.TrainingItem
	var labels []string
	for _, txn := range txns {
		for r := range txn.Postings {
			for o := range txn.Postings {
				ref := txn.Postings[r].Account
				other := &txn.Postings[o]
				if other.Account == ref {
					continue
				}
				items = append(items, feature.TrainingItem{
					Txn:        txn,
					Posting:    other,
					RefAccount: ref,
				})
				labels = append(labels, other.Account)
			}
		}
	}
	return items, labels
}

func (postingTarget) predictionItems(txns []*model.Transaction, knownAccount string) []feature.TrainingItem {
	items := make([]feature.TrainingItem, len(txns))
	for i, txn := range txns {
		items[i] = feature.TrainingItem{Txn: txn, RefAccount: knownAccount}
	}
	return items
}

func (postingTarget) apply(txn *model.Transaction, label string, _ bool) *model.Transaction {
	return entries.AddPosting(txn, label)
}

func (postingTarget) suggestionsKey() string { return model.MetaSuggestedAccounts }
