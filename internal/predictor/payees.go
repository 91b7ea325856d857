package predictor

import (
	"github.com/smartbean/smartbean/internal/entries"
	"github.com/smartbean/smartbean/internal/feature"
	"github.com/smartbean/smartbean/internal/model"
)

// NewPayees creates a predictor that completes missing payees on imported
// transactions.
func NewPayees(opts Options) *Predictor {
	return newPredictor(payeeTarget{}, opts)
}

type payeeTarget struct{}

func (payeeTarget) name() string { return "payee" }

func (payeeTarget) descriptors() []feature.Descriptor {
	return []feature.Descriptor{
		{Attr: feature.AttrNarration, Weight: 0.8},
		{Attr: feature.AttrPayee, Weight: 0.5},
		{Attr: feature.AttrDateDay, Weight: 0.1},
	}
}

func (payeeTarget) trainingItems(txns []*model.Transaction) ([]feature.TrainingItem, []string) {
	items := feature.Items(txns)
	labels := make([]string, len(txns))
	for i, txn := range txns {
		labels[i] = txn.Payee
	}
	return items, labels
}

func (payeeTarget) predictionItems(txns []*model.Transaction, _ string) []feature.TrainingItem {
	return feature.Items(txns)
}

func (payeeTarget) apply(txn *model.Transaction, label string, overwrite bool) *model.Transaction {
	return entries.SetPayee(txn, label, overwrite)
}

func (payeeTarget) suggestionsKey() string { return model.MetaSuggestedPayees }
