package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// Left edges used to place test tokens in the default HSBC columns.
const (
	xDate        = 40.0
	xPaymentType = 110.0
	xDescription = 140.0
	xPaidOut     = 370.0
	xPaidIn      = 450.0
	xBalance     = 530.0
)

// row lays out one statement table line. Empty cells are skipped; date and
// description are split into words.
func row(top float64, date, paymentType, description, paidOut, paidIn, balance string) []models.Token {
	var toks []models.Token
	for i, w := range strings.Fields(date) {
		toks = append(toks, models.Token{Text: w, X: xDate + float64(i)*18, Top: top})
	}
	if paymentType != "" {
		toks = append(toks, models.Token{Text: paymentType, X: xPaymentType, Top: top})
	}
	for i, w := range strings.Fields(description) {
		toks = append(toks, models.Token{Text: w, X: xDescription + float64(i)*30, Top: top})
	}
	for _, cell := range []struct {
		text string
		x    float64
	}{{paidOut, xPaidOut}, {paidIn, xPaidIn}, {balance, xBalance}} {
		if cell.text != "" {
			toks = append(toks, models.Token{Text: cell.text, X: cell.x, Top: top})
		}
	}
	return toks
}

// textRow lays out free text starting at x, one word every 30pt.
func textRow(top, x float64, s string) []models.Token {
	var toks []models.Token
	for i, w := range strings.Fields(s) {
		toks = append(toks, models.Token{Text: w, X: x + float64(i)*30, Top: top})
	}
	return toks
}

// page assembles rows into a page whose text is header followed by the
// rows' text.
func page(number int, header string, rows ...[]models.Token) models.Page {
	var toks []models.Token
	for _, r := range rows {
		toks = append(toks, r...)
	}
	texts := []string{header}
	for _, l := range groupLines(toks) {
		texts = append(texts, l.text())
	}
	return models.Page{Number: number, Tokens: toks, Text: strings.Join(texts, "\n")}
}

func newTestParser(opts ...Option) *Parser {
	return New(config.DefaultLayout(), opts...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}
