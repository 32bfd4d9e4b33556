package parser

import (
	"slices"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// accumulator is the in-flight state of one document's transaction
// stream. It is a value: every step returns the next state and never
// writes into slices shared with an earlier state.
//
// Date and payment type persist across finalisations; description and
// amounts are cleared each time a candidate is finalised.
type accumulator struct {
	date        time.Time
	hasDate     bool
	paymentType string
	description []string
	paidOut     decimal.NullDecimal
	paidIn      decimal.NullDecimal
	balance     decimal.NullDecimal

	emitted []models.Transaction
}

func positive(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}

// hasAmount reports whether the in-flight candidate has a positive
// paid-out or paid-in amount.
func (a accumulator) hasAmount() bool {
	return positive(a.paidOut) || positive(a.paidIn)
}

// step applies one classified line.
func (a accumulator) step(f lineFields) accumulator {
	if f.hasDate() {
		a = a.finalize()
		a.date, a.hasDate = parseDateParts(f.dateParts[0], f.dateParts[1], f.dateParts[2])
		if !a.hasDate {
			log.Debugf("[Parser] unparseable date %q", strings.Join(f.dateParts, " "))
		}
	}

	if f.paymentType != "" {
		// Without an amount the previous anchor absorbs this one.
		if a.paymentType != "" && a.hasAmount() {
			a = a.finalize()
		}
		a.paymentType = f.paymentType
	}

	if len(f.description) > 0 && a.paymentType != "" {
		a.description = append(slices.Clip(a.description), f.description...)
	}

	if f.paidOut.Valid {
		a.paidOut = f.paidOut
	}
	if f.paidIn.Valid {
		a.paidIn = f.paidIn
	}
	if f.balance.Valid {
		a.balance = f.balance
	}
	return a
}

// finalize emits the in-flight candidate if it has a date, a payment type
// and an amount, then clears description and amounts.
func (a accumulator) finalize() accumulator {
	if a.hasDate && a.paymentType != "" && a.hasAmount() {
		a.emitted = append(slices.Clip(a.emitted), models.Transaction{
			Date:        a.date,
			PaymentType: a.paymentType,
			Description: strings.Join(a.description, " "),
			PaidOut:     a.paidOut,
			PaidIn:      a.paidIn,
			Balance:     a.balance,
		})
	} else if len(a.description) > 0 {
		log.Debugf("[Parser] discarded candidate %q (date=%v type=%q amount=%v)",
			strings.Join(a.description, " "), a.hasDate, a.paymentType, a.hasAmount())
	}

	a.description = nil
	a.paidOut = decimal.NullDecimal{}
	a.paidIn = decimal.NullDecimal{}
	a.balance = decimal.NullDecimal{}
	return a
}

// carryForward handles a "balance carried forward" marker: the block
// ends and no payment type is active until the next anchor.
func (a accumulator) carryForward() accumulator {
	a = a.finalize()
	a.paymentType = ""
	return a
}
