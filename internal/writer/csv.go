package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// Header is the column header of every export.
var Header = []string{"Date", "Bank", "Description", "Income", "Expenses"}

const dateFormat = "02/01/2006"

// Rows maps transactions to export rows.
type Rows struct {
	Bank     string // literal written in the Bank column, e.g. "hsbc"
	Currency string // prefix for amounts, e.g. "£"
}

// Row converts one transaction to its five export fields.
func (r Rows) Row(tx models.Transaction) []string {
	return []string{
		tx.Date.Format(dateFormat),
		r.Bank,
		strings.TrimSpace(tx.Description),
		r.formatAmount(tx.PaidIn, ""),
		r.formatAmount(tx.PaidOut, "-"),
	}
}

// formatAmount renders a present, non-zero amount with two decimals and
// the currency prefix; anything else is an empty cell.
func (r Rows) formatAmount(amount decimal.NullDecimal, sign string) string {
	if !amount.Valid || amount.Decimal.IsZero() {
		return ""
	}
	return sign + r.Currency + amount.Decimal.StringFixed(2)
}

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	Rows
}

// NewCSVWriter returns a CSV writer for the given bank literal and currency.
func NewCSVWriter(bank, currency string) *CSVWriter {
	return &CSVWriter{Rows: Rows{Bank: bank, Currency: currency}}
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %q: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, txns)
}

// Write writes the header and one row per transaction.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, tx := range txns {
		if err := cw.Write(w.Row(tx)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCombined merges several statements' transactions, sorts them by
// date and writes them under a single header.
func (w *CSVWriter) WriteCombined(out io.Writer, lists ...[]models.Transaction) error {
	return w.Write(out, models.Merge(lists...))
}
