// Package ledger reads and writes a plain-text subset of the beancount
// syntax: open, close, balance and note directives plus transactions with
// postings and metadata lines. It exists so the CLI can load historical
// entries and print enhanced ones without an external ledger tool.
package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartbean/smartbean/internal/model"
)

const dateLayout = "2006-01-02"

var (
	txnPattern     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+([*!])\s*(.*)$`)
	openPattern    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+open\s+(\S+)(?:\s+(\S+))?$`)
	closePattern   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+close\s+(\S+)$`)
	balancePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+balance\s+(\S+)\s+(-?[\d.]+)\s+(\S+)$`)
	notePattern    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+note\s+(\S+)\s+"(.*)"$`)
	postingPattern = regexp.MustCompile(`^(\S+)(?:\s+(-?[\d.]+)\s+(\S+))?$`)
	metaPattern    = regexp.MustCompile(`^([a-z_][\w-]*):\s*(.*)$`)
	stringPattern  = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// ParseFile reads ledger entries from the file at path.
func ParseFile(path string) ([]model.Directive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger file: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

// Parse reads ledger entries from r. Lines it does not recognize (comments,
// options, includes) are skipped; indented lines attach to the preceding
// transaction as postings or metadata.
func Parse(r io.Reader) ([]model.Directive, error) {
	var entries []model.Directive
	var current *model.Transaction

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" || strings.HasPrefix(strings.TrimSpace(line), ";") {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if current == nil {
				continue
			}
			if err := parseIndented(current, strings.TrimSpace(line)); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			continue
		}

		current = nil
		entry, txn, err := parseDirective(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if entry == nil {
			continue
		}
		entries = append(entries, entry)
		current = txn
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return entries, nil
}

// parseDirective parses a non-indented line. It returns a nil entry for lines
// that are valid but ignored (unknown directive kinds).
func parseDirective(line string) (model.Directive, *model.Transaction, error) {
	if m := openPattern.FindStringSubmatch(line); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return nil, nil, err
		}
		open := &model.Open{Date: date, Account: m[2]}
		if m[3] != "" {
			open.Currencies = strings.Split(m[3], ",")
		}
		return open, nil, nil
	}
	if m := closePattern.FindStringSubmatch(line); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return nil, nil, err
		}
		return &model.Close{Date: date, Account: m[2]}, nil, nil
	}
	if m := balancePattern.FindStringSubmatch(line); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return nil, nil, err
		}
		amount, err := decimal.NewFromString(m[3])
		if err != nil {
			return nil, nil, fmt.Errorf("parsing balance amount %q: %w", m[3], err)
		}
		return &model.Balance{Date: date, Account: m[2], Amount: amount, Currency: m[4]}, nil, nil
	}
	if m := notePattern.FindStringSubmatch(line); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return nil, nil, err
		}
		return &model.Note{Date: date, Account: m[2], Comment: unescape(m[3])}, nil, nil
	}
	if m := txnPattern.FindStringSubmatch(line); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return nil, nil, err
		}
		payee, narration := parseStrings(m[3])
		txn := &model.Transaction{
			Date:      date,
			Flag:      m[2],
			Payee:     payee,
			Narration: narration,
			Meta:      model.Meta{},
		}
		return txn, txn, nil
	}
	return nil, nil, nil
}

func parseIndented(txn *model.Transaction, line string) error {
	if m := metaPattern.FindStringSubmatch(line); m != nil {
		value := m[2]
		if q := stringPattern.FindStringSubmatch(value); q != nil {
			value = unescape(q[1])
		}
		txn.Meta[m[1]] = value
		return nil
	}
	m := postingPattern.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("unrecognized posting line %q", line)
	}
	posting := model.Posting{Account: m[1]}
	if m[2] != "" {
		amount, err := decimal.NewFromString(m[2])
		if err != nil {
			return fmt.Errorf("parsing posting amount %q: %w", m[2], err)
		}
		posting.Amount = &amount
		posting.Currency = m[3]
	}
	txn.Postings = append(txn.Postings, posting)
	return nil
}

// parseStrings pulls payee and narration out of the quoted strings on a
// transaction header. One string is a narration only; two are payee then
// narration, matching beancount.
func parseStrings(rest string) (payee, narration string) {
	matches := stringPattern.FindAllStringSubmatch(rest, 2)
	switch len(matches) {
	case 1:
		return "", unescape(matches[0][1])
	case 2:
		return unescape(matches[0][1]), unescape(matches[1][1])
	}
	return "", ""
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return date, nil
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}
