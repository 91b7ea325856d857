// Package entries provides pure helpers for modifying ledger entries. Every
// helper returns a fresh transaction and leaves its input untouched.
package entries

import (
	"github.com/smartbean/smartbean/internal/model"
)

// SetPayee returns the transaction with its payee set to the prediction. An
// existing payee is kept unless overwrite is requested; empty predictions
// never modify the transaction.
func SetPayee(txn *model.Transaction, payee string, overwrite bool) *model.Transaction {
	if payee == "" || (txn.Payee != "" && !overwrite) {
		return txn
	}
	out := txn.Clone()
	out.Payee = payee
	return out
}

// AddPosting returns the transaction with a posting for the predicted account
// appended. Only transactions with exactly one posting are completed;
// anything else is already balanced and is returned unchanged.
func AddPosting(txn *model.Transaction, account string) *model.Transaction {
	if len(txn.Postings) != 1 || account == "" {
		return txn
	}
	out := txn.Clone()
	out.Postings = append(out.Postings, model.Posting{Account: account})
	return out
}

// AttachSuggestions returns the transaction with the ordered suggestion list
// stored under the given metadata key. An empty list attaches nothing.
func AttachSuggestions(txn *model.Transaction, key string, suggestions []string) *model.Transaction {
	if len(suggestions) == 0 {
		return txn
	}
	out := txn.Clone()
	if out.Meta == nil {
		out.Meta = model.Meta{}
	}
	out.Meta[key] = append([]string(nil), suggestions...)
	return out
}

// MergeTransactions interleaves the enhanced transactions back into the
// original entry order. Non-transaction directives pass through unchanged;
// the enhanced slice must hold exactly one transaction per transaction in the
// original entries.
func MergeTransactions(imported []model.Directive, enhanced []*model.Transaction) []model.Directive {
	out := make([]model.Directive, 0, len(imported))
	next := 0
	for _, entry := range imported {
		if _, ok := entry.(*model.Transaction); ok {
			out = append(out, enhanced[next])
			next++
		} else {
			out = append(out, entry)
		}
	}
	return out
}
