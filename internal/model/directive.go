// Package model defines the ledger directives that flow through an import
// pipeline: transactions with their postings, plus the account lifecycle and
// assertion directives that surround them.
package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Meta is the open-ended metadata mapping carried by every directive.
type Meta map[string]any

// Copy returns a shallow copy of the metadata map.
func (m Meta) Copy() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Reserved metadata keys written by the enhancement layer.
const (
	MetaSuggestedAccounts = "__suggested_accounts__"
	MetaSuggestedPayees   = "__suggested_payees__"
	MetaDuplicate         = "__duplicate__"
)

// Directive is a single dated entry in a ledger.
type Directive interface {
	EntryDate() time.Time
}

// Open marks the start of an account's valid date range.
type Open struct {
	Date       time.Time
	Account    string
	Currencies []string
	Meta       Meta
}

// EntryDate implements Directive.
func (o *Open) EntryDate() time.Time { return o.Date }

// Close marks the end of an account's valid date range.
type Close struct {
	Date    time.Time
	Account string
	Meta    Meta
}

// EntryDate implements Directive.
func (c *Close) EntryDate() time.Time { return c.Date }

// Balance asserts an account's balance on a given date.
type Balance struct {
	Date     time.Time
	Account  string
	Amount   decimal.Decimal
	Currency string
	Meta     Meta
}

// EntryDate implements Directive.
func (b *Balance) EntryDate() time.Time { return b.Date }

// Note attaches a dated comment to an account.
type Note struct {
	Date    time.Time
	Account string
	Comment string
	Meta    Meta
}

// EntryDate implements Directive.
func (n *Note) EntryDate() time.Time { return n.Date }

// SortedByDate returns the directives ordered chronologically. The input is
// not modified; ties keep their original relative order.
func SortedByDate(entries []Directive) []Directive {
	out := make([]Directive, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryDate().Before(out[j].EntryDate())
	})
	return out
}

// FilterTransactions returns only the Transaction directives, preserving order.
func FilterTransactions(entries []Directive) []*Transaction {
	var txns []*Transaction
	for _, entry := range entries {
		if txn, ok := entry.(*Transaction); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}
