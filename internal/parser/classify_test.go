package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

func TestClassifyToken(t *testing.T) {
	c := newClassifier(config.DefaultLayout())

	tests := []struct {
		name   string
		text   string
		x      float64
		kind   fieldKind
		column amountColumn
		out    string
	}{
		{"day", "5", 40, fieldDatePart, 0, "5"},
		{"month", "Jan", 58, fieldDatePart, 0, "Jan"},
		{"year", "24", 76, fieldDatePart, 0, "24"},
		{"four digit year", "2024", 76, fieldIgnored, 0, "2024"},
		{"lowercase month", "jan", 58, fieldIgnored, 0, "jan"},
		{"word in date band", "Date", 10, fieldIgnored, 0, "Date"},
		{"payment type", "DD", 110, fieldPaymentType, 0, "DD"},
		{"payment type any case", "vis", 110, fieldPaymentType, 0, "VIS"},
		{"contactless", ")))", 110, fieldPaymentType, 0, ")))"},
		{"unknown code", "TESCO", 110, fieldDescription, 0, "TESCO"},
		{"date band edge", "DD", 100, fieldPaymentType, 0, "DD"},
		{"paid out", "12.50", 370, fieldAmount, columnPaidOut, "12.50"},
		{"paid in", "1,234.56", 450, fieldAmount, columnPaidIn, "1,234.56"},
		{"balance", "99.00", 530, fieldAmount, columnBalance, "99.00"},
		{"paid in edge", "1.00", 430, fieldAmount, columnPaidIn, "1.00"},
		{"amount in description band", "12.50", 200, fieldDescription, 0, "12.50"},
		{"description word", "Direct", 140, fieldDescription, 0, "Direct"},
		{"one decimal in money band", "12.5", 370, fieldIgnored, 0, "12.5"},
		{"word in money band", "ref", 400, fieldIgnored, 0, "ref"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := c.classifyToken(models.Token{Text: tt.text, X: tt.x})
			if f.kind != tt.kind {
				t.Fatalf("kind: got %d, want %d", f.kind, tt.kind)
			}
			if f.text != tt.out {
				t.Errorf("text: got %q, want %q", f.text, tt.out)
			}
			if tt.kind == fieldAmount {
				if f.column != tt.column {
					t.Errorf("column: got %d, want %d", f.column, tt.column)
				}
				if !f.amount.Equal(dec(stripCommas(tt.text))) {
					t.Errorf("amount: got %s, want %s", f.amount, tt.text)
				}
			}
		})
	}
}

func stripCommas(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func TestClassifyLine(t *testing.T) {
	c := newClassifier(config.DefaultLayout())
	l := groupLines(row(300, "5 Jan 24", "DD", "Direct Debit ABC", "12.50", "", "1,000.00"))[0]

	f := c.classifyLine(l)
	assert.True(t, f.hasDate())
	assert.Equal(t, []string{"5", "Jan", "24"}, f.dateParts)
	assert.Equal(t, "DD", f.paymentType)
	assert.Equal(t, []string{"Direct", "Debit", "ABC"}, f.description)
	assert.True(t, f.paidOut.Valid)
	assert.True(t, f.paidOut.Decimal.Equal(dec("12.50")))
	assert.False(t, f.paidIn.Valid)
	assert.True(t, f.balance.Decimal.Equal(dec("1000")))
}

func TestClassifyLine_LastAmountWins(t *testing.T) {
	c := newClassifier(config.DefaultLayout())
	l := line{tokens: []models.Token{
		{Text: "1.00", X: 360},
		{Text: "2.00", X: 400},
	}}

	f := c.classifyLine(l)
	assert.True(t, f.paidOut.Decimal.Equal(dec("2.00")))
	assert.False(t, f.hasDate())
}

func TestClassifyLine_PartialDate(t *testing.T) {
	c := newClassifier(config.DefaultLayout())
	l := groupLines(textRow(10, 40, "Jan 24"))[0]

	f := c.classifyLine(l)
	assert.Len(t, f.dateParts, 2)
	assert.False(t, f.hasDate())
}
