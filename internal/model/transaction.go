package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one account-and-amount line within a transaction. The amount is
// nil for postings whose value is left to be interpolated.
type Posting struct {
	Account  string
	Amount   *decimal.Decimal
	Currency string
}

// Transaction represents a single financial transaction from any source.
type Transaction struct {
	Date      time.Time
	Flag      string
	Payee     string
	Narration string
	Meta      Meta
	Postings  []Posting
}

// EntryDate implements Directive.
func (t *Transaction) EntryDate() time.Time { return t.Date }

// Clone returns a copy of the transaction with its own postings slice and
// metadata map, so callers can modify the copy without aliasing the original.
func (t *Transaction) Clone() *Transaction {
	out := *t
	out.Postings = make([]Posting, len(t.Postings))
	copy(out.Postings, t.Postings)
	if t.Meta != nil {
		out.Meta = t.Meta.Copy()
	}
	return &out
}

// InvolvesAccount reports whether any posting uses the given account or a
// descendant of it ("Assets:Checking" matches "Assets:Checking:Sub").
func (t *Transaction) InvolvesAccount(account string) bool {
	if account == "" {
		return true
	}
	for _, posting := range t.Postings {
		if posting.Account == account || strings.HasPrefix(posting.Account, account+":") {
			return true
		}
	}
	return false
}
