package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/smartbean/smartbean/internal/model"
)

// OFXImporter converts OFX/QFX statement downloads into single-posting
// transactions on a fixed account.
type OFXImporter struct {
	AccountName string
	Currency    string
}

// NewOFXImporter creates an OFX importer for the given account.
func NewOFXImporter(account, currency string) *OFXImporter {
	return &OFXImporter{AccountName: account, Currency: currency}
}

// Name implements Importer.
func (o *OFXImporter) Name() string { return "ofx" }

// Identify implements Importer.
func (o *OFXImporter) Identify(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".ofx" || ext == ".qfx"
}

// Account implements Importer.
func (o *OFXImporter) Account(string) string { return o.AccountName }

// Extract implements Importer.
func (o *OFXImporter) Extract(path string, _ []model.Directive) ([]model.Directive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer func() { _ = file.Close() }()

	resp, err := ofxgo.ParseResponse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing OFX file %s: %w", path, err)
	}

	var entries []model.Directive
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTxn := range stmt.BankTranList.Transactions {
				entries = append(entries, o.convert(ofxTxn))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTxn := range stmt.BankTranList.Transactions {
				entries = append(entries, o.convert(ofxTxn))
			}
		}
	}

	slog.Debug("Parsed OFX statement", "file", path, "transactions", len(entries))
	return entries, nil
}

// Date implements Dater using the latest transaction date in the file.
func (o *OFXImporter) Date(path string) (time.Time, bool) {
	entries, err := o.Extract(path, nil)
	if err != nil || len(entries) == 0 {
		return time.Time{}, false
	}
	last := entries[0].EntryDate()
	for _, entry := range entries[1:] {
		if entry.EntryDate().After(last) {
			last = entry.EntryDate()
		}
	}
	return last, true
}

func (o *OFXImporter) convert(ofxTxn ofxgo.Transaction) *model.Transaction {
	amount := decimal.NewFromBigRat(&ofxTxn.TrnAmt.Rat, 2)

	payee := ""
	if ofxTxn.Payee != nil {
		payee = strings.TrimSpace(string(ofxTxn.Payee.Name))
	}
	narration := strings.TrimSpace(string(ofxTxn.Name))
	if memo := strings.TrimSpace(string(ofxTxn.Memo)); memo != "" && narration == "" {
		narration = memo
	}

	meta := model.Meta{}
	if id := string(ofxTxn.FiTID); id != "" {
		meta["ofx_fitid"] = id
	}

	return &model.Transaction{
		Date:      ofxTxn.DtPosted.Time,
		Flag:      "*",
		Payee:     payee,
		Narration: narration,
		Meta:      meta,
		Postings: []model.Posting{
			{Account: o.AccountName, Amount: &amount, Currency: o.Currency},
		},
	}
}
