package hooks

import (
	"log/slog"
	"time"

	"github.com/smartbean/smartbean/internal/model"
)

// OldEntryTrimmer drops imported transactions dated before the last balance
// assertion in the existing ledger, since those are already accounted for.
// By default only transactions already marked duplicate are dropped; set
// OnlyTrimDuplicates to false to trim all old transactions.
type OldEntryTrimmer struct {
	OnlyTrimDuplicates bool
}

// NewOldEntryTrimmer creates a trimmer that only drops marked duplicates.
func NewOldEntryTrimmer() *OldEntryTrimmer {
	return &OldEntryTrimmer{OnlyTrimDuplicates: true}
}

// Apply implements Hook.
func (t *OldEntryTrimmer) Apply(_, _ string, imported, existing []model.Directive) ([]model.Directive, error) {
	var lastBalance time.Time
	for _, entry := range existing {
		if balance, ok := entry.(*model.Balance); ok && balance.Date.After(lastBalance) {
			lastBalance = balance.Date
		}
	}

	var out []model.Directive
	for _, entry := range imported {
		if t.keep(entry, lastBalance) {
			out = append(out, entry)
		}
	}

	if dropped := len(imported) - len(out); dropped > 0 {
		slog.Debug("Trimmed old imported transactions",
			"dropped", dropped,
			"last_balance", lastBalance.Format("2006-01-02"))
	}
	return out, nil
}

func (t *OldEntryTrimmer) keep(entry model.Directive, lastBalance time.Time) bool {
	txn, ok := entry.(*model.Transaction)
	if !ok {
		return true
	}
	if !txn.Date.Before(lastBalance) {
		return true
	}
	if duplicate, ok := txn.Meta[model.MetaDuplicate].(bool); ok && duplicate {
		return false
	}
	return t.OnlyTrimDuplicates
}
