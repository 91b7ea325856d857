// Package feature extracts numeric feature matrices from transactions. Each
// candidate feature is declared as a descriptor with a relative weight; the
// selected features are concatenated into one weighted union matrix for the
// classifier.
package feature

import (
	"fmt"
	"strings"

	"github.com/smartbean/smartbean/internal/common"
	"github.com/smartbean/smartbean/internal/model"
)

// TrainingItem is one input sample for the feature pipelines. For payee
// prediction it is a plain transaction. For posting prediction it also
// carries the posting of interest and a reference account: the account of the
// paired posting at training time, the importer-supplied known account at
// prediction time.
type TrainingItem struct {
	Txn        *model.Transaction
	Posting    *model.Posting
	RefAccount string
}

// Items wraps transactions into plain training items.
func Items(txns []*model.Transaction) []TrainingItem {
	items := make([]TrainingItem, len(txns))
	for i, txn := range txns {
		items[i] = TrainingItem{Txn: txn}
	}
	return items
}

// StringExtractor returns a text feature value for one training item. It is
// total: missing attributes yield the empty string.
type StringExtractor func(TrainingItem) string

// NumericExtractor returns a scalar feature value for one training item.
type NumericExtractor func(TrainingItem) float64

// Feature attribute names understood by the extractors.
const (
	AttrNarration  = "narration"
	AttrPayee      = "payee"
	AttrRefAccount = "ref_account"
	AttrDateDay    = "date.day"

	metaPrefix = "meta."
)

// StringAttribute returns the extractor for a named text attribute. Dotted
// "meta.<key>" paths read from the transaction metadata.
func StringAttribute(attr string) (StringExtractor, error) {
	if key, ok := strings.CutPrefix(attr, metaPrefix); ok {
		return func(item TrainingItem) string {
			value, ok := item.Txn.Meta[key]
			if !ok {
				return ""
			}
			s, ok := value.(string)
			if !ok {
				return fmt.Sprint(value)
			}
			return s
		}, nil
	}

	switch attr {
	case AttrNarration:
		return func(item TrainingItem) string { return item.Txn.Narration }, nil
	case AttrPayee:
		return func(item TrainingItem) string { return item.Txn.Payee }, nil
	case AttrRefAccount:
		return func(item TrainingItem) string {
			if item.RefAccount != "" {
				return item.RefAccount
			}
			if len(item.Txn.Postings) > 0 {
				return item.Txn.Postings[0].Account
			}
			return ""
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownAttribute, attr)
	}
}

// NumericAttribute returns the extractor for a named numeric attribute.
func NumericAttribute(attr string) (NumericExtractor, error) {
	switch attr {
	case AttrDateDay:
		return func(item TrainingItem) float64 { return float64(item.Txn.Date.Day()) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownAttribute, attr)
	}
}
