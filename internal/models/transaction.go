package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Token is a positioned word handed over by the PDF text extractor.
type Token struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`   // left offset
	Top  float64 `json:"top"` // vertical offset from the top of the page
}

// Page holds the tokens and plain text extracted from one PDF page.
type Page struct {
	Number int     `json:"number"`
	Tokens []Token `json:"tokens"`
	Text   string  `json:"text"`
}

// Document is a statement as delivered by the extractor.
type Document struct {
	Name  string
	Pages []Page
}

// Transaction represents a single bank statement transaction.
type Transaction struct {
	Date        time.Time           `json:"date"`
	PaymentType string              `json:"paymentType"`
	Description string              `json:"description"`
	PaidOut     decimal.NullDecimal `json:"paidOut"`
	PaidIn      decimal.NullDecimal `json:"paidIn"`
	Balance     decimal.NullDecimal `json:"balance"`
}

// StatementSummary holds the account summary totals printed on the statement.
type StatementSummary struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	PaymentsIn     decimal.Decimal `json:"paymentsIn"`
	PaymentsOut    decimal.Decimal `json:"paymentsOut"`
	StatementStart *time.Time      `json:"statementStart,omitempty"`
	StatementEnd   *time.Time      `json:"statementEnd,omitempty"`
}

// ParseResult is the outcome of parsing one statement.
// Failures are recorded in Errors and Warnings rather than returned.
type ParseResult struct {
	Success       bool              `json:"success"`
	Filename      string            `json:"filename,omitempty"`
	Transactions  []Transaction     `json:"transactions"`
	Summary       *StatementSummary `json:"summary,omitempty"`
	Errors        []string          `json:"errors"`
	Warnings      []string          `json:"warnings"`
	PageCount     int               `json:"pageCount"`
	AccountNumber string            `json:"accountNumber,omitempty"`
	SortCode      string            `json:"sortCode,omitempty"`
}

// Totals sums paid in and paid out across the result's transactions.
func (r *ParseResult) Totals() (in, out decimal.Decimal) {
	return SumPaidIn(r.Transactions), SumPaidOut(r.Transactions)
}

// SumPaidIn adds up every present paid-in amount.
func SumPaidIn(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.PaidIn.Valid {
			total = total.Add(t.PaidIn.Decimal)
		}
	}
	return total
}

// SumPaidOut adds up every present paid-out amount.
func SumPaidOut(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.PaidOut.Valid {
			total = total.Add(t.PaidOut.Decimal)
		}
	}
	return total
}

// SortByDate orders transactions by date. Same-day transactions keep
// their relative order.
func SortByDate(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

// Merge concatenates transaction lists from several statements and
// sorts the union by date.
func Merge(lists ...[]Transaction) []Transaction {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	merged := make([]Transaction, 0, n)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	SortByDate(merged)
	return merged
}
