package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// fieldKind is the semantic column a token was assigned to.
type fieldKind int

const (
	fieldIgnored fieldKind = iota
	fieldDatePart
	fieldPaymentType
	fieldAmount
	fieldDescription
)

// amountColumn says which of the three money columns an amount sits in.
type amountColumn int

const (
	columnPaidOut amountColumn = iota
	columnPaidIn
	columnBalance
)

// field is one classified token.
type field struct {
	kind   fieldKind
	text   string
	column amountColumn    // fieldAmount only
	amount decimal.Decimal // fieldAmount only
}

// lineFields is everything a single line contributes to the assembler.
// Within a line the last amount seen for a column wins.
type lineFields struct {
	dateParts   []string
	paymentType string
	description []string
	paidOut     decimal.NullDecimal
	paidIn      decimal.NullDecimal
	balance     decimal.NullDecimal
}

// hasDate reports whether the line carries a full day, month, year date.
func (f lineFields) hasDate() bool {
	return len(f.dateParts) == 3
}

// classifier assigns tokens to columns by horizontal position and shape.
type classifier struct {
	cols         config.Columns
	months       map[string]bool
	paymentTypes map[string]string
}

func newClassifier(layout config.Layout) *classifier {
	c := &classifier{
		cols:         layout.Columns,
		months:       make(map[string]bool, len(layout.Months)),
		paymentTypes: make(map[string]string, len(layout.PaymentTypes)),
	}
	for _, m := range layout.Months {
		c.months[m] = true
	}
	for _, pt := range layout.PaymentTypes {
		upper := strings.ToUpper(pt)
		c.paymentTypes[upper] = upper
	}
	return c
}

// classifyToken decides which field a single token belongs to. Bands are
// checked left to right; an amount outside the three money columns is
// kept as description text.
func (c *classifier) classifyToken(tok models.Token) field {
	x, text := tok.X, tok.Text

	switch {
	case x < c.cols.DateMax:
		// A one- or two-digit number is a day or, as the third part, a year.
		if (isDigits(text) && len(text) <= 2) || c.months[text] {
			return field{kind: fieldDatePart, text: text}
		}
		return field{kind: fieldIgnored, text: text}

	case x >= c.cols.PaymentTypeMin && x < c.cols.PaymentTypeMax:
		if code, ok := c.paymentTypes[strings.ToUpper(text)]; ok {
			return field{kind: fieldPaymentType, text: code}
		}
		return field{kind: fieldDescription, text: text}

	case amountPattern.MatchString(text):
		amt, err := parseAmount(text)
		if err != nil {
			return field{kind: fieldDescription, text: text}
		}
		switch {
		case x >= c.cols.PaidOutMin && x < c.cols.PaidOutMax:
			return field{kind: fieldAmount, text: text, column: columnPaidOut, amount: amt}
		case x >= c.cols.PaidInMin && x < c.cols.PaidInMax:
			return field{kind: fieldAmount, text: text, column: columnPaidIn, amount: amt}
		case x >= c.cols.BalanceMin:
			return field{kind: fieldAmount, text: text, column: columnBalance, amount: amt}
		}
		return field{kind: fieldDescription, text: text}

	case x >= c.cols.DescriptionMin && x < c.cols.PaidOutMin:
		return field{kind: fieldDescription, text: text}
	}

	return field{kind: fieldIgnored, text: text}
}

// classifyLine folds a line's classified tokens into lineFields.
func (c *classifier) classifyLine(l line) lineFields {
	var lf lineFields
	for _, tok := range l.tokens {
		f := c.classifyToken(tok)
		switch f.kind {
		case fieldDatePart:
			lf.dateParts = append(lf.dateParts, f.text)
		case fieldPaymentType:
			lf.paymentType = f.text
		case fieldDescription:
			lf.description = append(lf.description, f.text)
		case fieldAmount:
			amt := decimal.NewNullDecimal(f.amount)
			switch f.column {
			case columnPaidOut:
				lf.paidOut = amt
			case columnPaidIn:
				lf.paidIn = amt
			case columnBalance:
				lf.balance = amt
			}
		case fieldIgnored:
		}
	}
	return lf
}
