package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartbean/smartbean/internal/model"
)

// CSVColumns maps statement columns to transaction fields. Payee is optional
// (-1 when the statement has no payee column).
type CSVColumns struct {
	Date      int
	Narration int
	Amount    int
	Payee     int
}

// CSVImporter converts a column-mapped CSV statement into single-posting
// transactions on a fixed account.
type CSVImporter struct {
	filePattern *regexp.Regexp
	AccountName string
	Currency    string
	DateFormat  string
	Comma       rune
	Columns     CSVColumns
	SkipHeader  bool
}

// NewCSVImporter creates a CSV importer for the given account. The file
// pattern is matched against the base name of candidate files.
func NewCSVImporter(account, currency, filePattern, dateFormat string, columns CSVColumns) (*CSVImporter, error) {
	pattern, err := regexp.Compile(filePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", filePattern, err)
	}
	return &CSVImporter{
		filePattern: pattern,
		AccountName: account,
		Currency:    currency,
		DateFormat:  dateFormat,
		Comma:       ',',
		Columns:     columns,
		SkipHeader:  true,
	}, nil
}

// Name implements Importer.
func (c *CSVImporter) Name() string { return "csv" }

// Identify implements Importer.
func (c *CSVImporter) Identify(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return false
	}
	return c.filePattern.MatchString(filepath.Base(path))
}

// Account implements Importer.
func (c *CSVImporter) Account(string) string { return c.AccountName }

// Extract implements Importer.
func (c *CSVImporter) Extract(path string, _ []model.Directive) ([]model.Directive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.Comma = c.Comma
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement %s: %w", path, err)
	}
	if c.SkipHeader && len(records) > 0 {
		records = records[1:]
	}

	var entries []model.Directive
	for i, record := range records {
		txn, err := c.parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, txn)
	}
	return entries, nil
}

func (c *CSVImporter) parseRow(record []string) (*model.Transaction, error) {
	width := c.Columns.Amount
	if c.Columns.Date > width {
		width = c.Columns.Date
	}
	if c.Columns.Narration > width {
		width = c.Columns.Narration
	}
	if len(record) <= width {
		return nil, fmt.Errorf("expected at least %d columns, got %d", width+1, len(record))
	}

	date, err := time.Parse(c.DateFormat, strings.TrimSpace(record[c.Columns.Date]))
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", record[c.Columns.Date], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[c.Columns.Amount]))
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", record[c.Columns.Amount], err)
	}

	payee := ""
	if c.Columns.Payee >= 0 && c.Columns.Payee < len(record) {
		payee = strings.TrimSpace(record[c.Columns.Payee])
	}

	return &model.Transaction{
		Date:      date,
		Flag:      "*",
		Payee:     payee,
		Narration: strings.TrimSpace(record[c.Columns.Narration]),
		Meta:      model.Meta{},
		Postings: []model.Posting{
			{Account: c.AccountName, Amount: &amount, Currency: c.Currency},
		},
	}, nil
}
