// Package normalize maps heterogeneous bank-statement rows into one
// canonical record. Each supported bank format registers a pure mapping
// function keyed by its discriminator; unknown discriminators fall back
// to the generic mapping.
package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one statement line as raw column-name to cell-value pairs.
type Row map[string]string

// Record is the canonical shape every mapping function produces.
type Record struct {
	TransactionDate time.Time
	ValueDate       *time.Time
	TransactionID   string
	ChequeRefNo     string
	Remarks         string
	Withdrawal      decimal.Decimal
	Deposit         decimal.Decimal
	Balance         decimal.Decimal
}

// ErrMissingDate marks a row whose date column is absent or unparseable.
// Such rows are skipped by the importer, never partially stored.
var ErrMissingDate = errors.New("missing_or_unparseable_date")

// MapFunc converts one raw row into a canonical record.
type MapFunc func(Row) (Record, error)

var registry = map[string]MapFunc{
	"icici":   mapICICI,
	"idfc":    mapIDFC,
	"bofa":    mapBofA,
	"generic": mapGeneric,
}

// For returns the mapping function for a bank-type discriminator, falling
// back to the generic mapping for unknown types.
func For(bankType string) MapFunc {
	if fn, ok := registry[strings.ToLower(strings.TrimSpace(bankType))]; ok {
		return fn
	}
	return mapGeneric
}

func mapICICI(row Row) (Record, error) {
	date, ok := ParseDate(row.get("Transaction Date"))
	if !ok {
		return Record{}, ErrMissingDate
	}
	rec := Record{
		TransactionDate: date,
		TransactionID:   row.get("Tran. Id"),
		ChequeRefNo:     row.get("Cheque. No./Ref. No."),
		Remarks:         row.get("Transaction Remarks"),
		Withdrawal:      ParseDecimal(row.get("Withdrawal Amt (INR)")),
		Deposit:         ParseDecimal(row.get("Deposit Amt (INR)")),
		Balance:         ParseDecimal(row.get("Balance (INR)")),
	}
	if valueDate, ok := ParseDate(row.get("Value Date")); ok {
		rec.ValueDate = &valueDate
	}
	return rec, nil
}

func mapIDFC(row Row) (Record, error) {
	date, ok := ParseDate(row.first("Date", "Transaction Date"))
	if !ok {
		return Record{}, ErrMissingDate
	}
	return Record{
		TransactionDate: date,
		TransactionID:   row.get("Ref No./Cheque No."),
		Remarks:         row.first("Narration", "Description"),
		Withdrawal:      ParseDecimal(row.get("Debit")),
		Deposit:         ParseDecimal(row.get("Credit")),
		Balance:         ParseDecimal(row.get("Balance")),
	}, nil
}

func mapBofA(row Row) (Record, error) {
	date, ok := ParseDate(row.get("Date"))
	if !ok {
		return Record{}, ErrMissingDate
	}
	withdrawal, deposit := splitSigned(ParseDecimal(row.get("Amount")))
	return Record{
		TransactionDate: date,
		Remarks:         row.get("Description"),
		Withdrawal:      withdrawal,
		Deposit:         deposit,
		Balance:         ParseDecimal(row.first("Running Bal.", "Balance")),
	}, nil
}

func mapGeneric(row Row) (Record, error) {
	date, ok := ParseDate(row.first("Date", "Transaction Date"))
	if !ok {
		return Record{}, ErrMissingDate
	}
	rec := Record{
		TransactionDate: date,
		Remarks:         row.first("Description", "Remarks"),
		Balance:         ParseDecimal(row.get("Balance")),
	}
	if _, hasDeposit := row["Deposit"]; hasDeposit {
		rec.Deposit = ParseDecimal(row.get("Deposit"))
		rec.Withdrawal = ParseDecimal(row.get("Withdrawal"))
	} else if _, hasWithdrawal := row["Withdrawal"]; hasWithdrawal {
		rec.Deposit = ParseDecimal(row.get("Deposit"))
		rec.Withdrawal = ParseDecimal(row.get("Withdrawal"))
	} else {
		rec.Withdrawal, rec.Deposit = splitSigned(ParseDecimal(row.get("Amount")))
	}
	return rec, nil
}

// splitSigned maps a signed amount onto the withdrawal/deposit pair:
// positive amounts deposit, negative amounts withdraw their magnitude.
func splitSigned(amount decimal.Decimal) (withdrawal, deposit decimal.Decimal) {
	if amount.IsNegative() {
		return amount.Abs(), decimal.Zero
	}
	return decimal.Zero, amount
}

func (r Row) get(key string) string {
	return strings.TrimSpace(r[key])
}

func (r Row) first(keys ...string) string {
	for _, key := range keys {
		if v := r.get(key); v != "" {
			return v
		}
	}
	return ""
}

var dateFormats = []string{
	"02/Jan/2006",
	"02-Jan-2006",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02-Jan-06",
	"01/02/2006",
	"01-02-2006",
	"Jan 2, 2006",
}

// ParseDate tries every supported statement date format in order.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "nat", "none":
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseDecimal is lenient the way statement cells require: thousands
// separators are stripped and anything unparseable becomes zero.
func ParseDecimal(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	switch strings.ToLower(raw) {
	case "", "nan", "none":
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
