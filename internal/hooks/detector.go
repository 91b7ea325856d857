package hooks

import (
	"log/slog"
	"strings"
	"time"

	"github.com/smartbean/smartbean/internal/model"
)

// Comparator reports whether two transactions describe the same real-world
// event.
type Comparator func(imported, existing *model.Transaction) bool

// DuplicateDetector marks imported transactions that already appear in the
// existing entries by setting the duplicate metadata key. Existing entries
// within WindowDays before or after the imported date are considered.
type DuplicateDetector struct {
	Comparator Comparator
	WindowDays int
}

// NewDuplicateDetector creates a detector with the default two-day window and
// comparator.
func NewDuplicateDetector() *DuplicateDetector {
	return &DuplicateDetector{WindowDays: 2}
}

// Apply implements Hook.
func (d *DuplicateDetector) Apply(_, _ string, imported, existing []model.Directive) ([]model.Directive, error) {
	compare := d.Comparator
	if compare == nil {
		compare = defaultCompare
	}
	window := time.Duration(d.WindowDays) * 24 * time.Hour

	existingTxns := model.FilterTransactions(existing)
	out := make([]model.Directive, len(imported))
	marked := 0

	for i, entry := range imported {
		txn, ok := entry.(*model.Transaction)
		if !ok {
			out[i] = entry
			continue
		}

		duplicate := false
		for _, prior := range existingTxns {
			gap := txn.Date.Sub(prior.Date)
			if gap < -window || gap > window {
				continue
			}
			if compare(txn, prior) {
				duplicate = true
				break
			}
		}

		if duplicate {
			markedTxn := txn.Clone()
			if markedTxn.Meta == nil {
				markedTxn.Meta = model.Meta{}
			}
			markedTxn.Meta[model.MetaDuplicate] = true
			out[i] = markedTxn
			marked++
		} else {
			out[i] = entry
		}
	}

	if marked > 0 {
		slog.Debug("Marked duplicate transactions", "count", marked)
	}
	return out, nil
}

// defaultCompare considers transactions duplicates when their normalized
// narrations match and they share a posting amount.
func defaultCompare(imported, existing *model.Transaction) bool {
	if normalize(imported.Narration) != normalize(existing.Narration) {
		return false
	}
	for _, a := range imported.Postings {
		if a.Amount == nil {
			continue
		}
		for _, b := range existing.Postings {
			if b.Amount != nil && a.Amount.Equal(*b.Amount) {
				return true
			}
		}
	}
	return false
}

// normalize strips everything but letters and digits for a tolerant
// narration comparison.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, s)
}
