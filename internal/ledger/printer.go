package ledger

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/smartbean/smartbean/internal/model"
)

// Print writes entries to w in the same text form Parse reads, one blank line
// between directives.
func Print(w io.Writer, entries []model.Directive) error {
	for i, entry := range entries {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, Format(entry)); err != nil {
			return err
		}
	}
	return nil
}

// Format renders a single directive as ledger text, trailing newline included.
func Format(entry model.Directive) string {
	var b strings.Builder
	date := entry.EntryDate().Format(dateLayout)

	switch e := entry.(type) {
	case *model.Open:
		fmt.Fprintf(&b, "%s open %s", date, e.Account)
		if len(e.Currencies) > 0 {
			fmt.Fprintf(&b, " %s", strings.Join(e.Currencies, ","))
		}
		b.WriteByte('\n')
	case *model.Close:
		fmt.Fprintf(&b, "%s close %s\n", date, e.Account)
	case *model.Balance:
		fmt.Fprintf(&b, "%s balance %s %s %s\n", date, e.Account, e.Amount.String(), e.Currency)
	case *model.Note:
		fmt.Fprintf(&b, "%s note %s %q\n", date, e.Account, e.Comment)
	case *model.Transaction:
		formatTransaction(&b, e, date)
	default:
		fmt.Fprintf(&b, "; unsupported directive on %s\n", date)
	}
	return b.String()
}

func formatTransaction(b *strings.Builder, txn *model.Transaction, date string) {
	flag := txn.Flag
	if flag == "" {
		flag = "*"
	}
	fmt.Fprintf(b, "%s %s", date, flag)
	if txn.Payee != "" {
		fmt.Fprintf(b, " %q", txn.Payee)
	}
	fmt.Fprintf(b, " %q\n", txn.Narration)

	for _, key := range sortedMetaKeys(txn.Meta) {
		fmt.Fprintf(b, "  %s: %s\n", key, formatMetaValue(txn.Meta[key]))
	}
	for _, posting := range txn.Postings {
		if posting.Amount != nil {
			fmt.Fprintf(b, "  %s  %s %s\n", posting.Account, posting.Amount.String(), posting.Currency)
		} else {
			fmt.Fprintf(b, "  %s\n", posting.Account)
		}
	}
}

func sortedMetaKeys(meta model.Meta) []string {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// formatMetaValue renders metadata as a quoted string; suggestion lists
// become a comma-separated quoted string.
func formatMetaValue(value any) string {
	switch v := value.(type) {
	case []string:
		return fmt.Sprintf("%q", strings.Join(v, ", "))
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
}
