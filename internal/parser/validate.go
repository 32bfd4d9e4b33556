package parser

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// tolerance is the rounding slack allowed between extracted and declared totals.
var tolerance = decimal.RequireFromString("0.02")

// Validate cross-checks transaction totals against the statement summary.
// Every problem is returned as a warning message; an empty result means
// the extraction reconciles. currency prefixes amounts in the messages.
func Validate(txns []models.Transaction, summary *models.StatementSummary, currency string) []string {
	if summary == nil {
		return []string{"Could not extract statement summary for validation"}
	}
	if len(txns) == 0 {
		return []string{"No transactions extracted"}
	}

	money := func(d decimal.Decimal) string {
		return currency + d.StringFixed(2)
	}

	var warnings []string
	totalIn := models.SumPaidIn(txns)
	totalOut := models.SumPaidOut(txns)

	if diff := totalIn.Sub(summary.PaymentsIn).Abs(); diff.GreaterThan(tolerance) {
		warnings = append(warnings, fmt.Sprintf("Payments In mismatch: extracted %s, expected %s (diff: %s)",
			money(totalIn), money(summary.PaymentsIn), money(diff)))
	}

	if diff := totalOut.Sub(summary.PaymentsOut).Abs(); diff.GreaterThan(tolerance) {
		warnings = append(warnings, fmt.Sprintf("Payments Out mismatch: extracted %s, expected %s (diff: %s)",
			money(totalOut), money(summary.PaymentsOut), money(diff)))
	}

	expectedClosing := summary.OpeningBalance.Add(totalIn).Sub(totalOut)
	if expectedClosing.Sub(summary.ClosingBalance).Abs().GreaterThan(tolerance) {
		warnings = append(warnings, fmt.Sprintf("Balance calculation: %s + %s - %s = %s, expected %s",
			money(summary.OpeningBalance), money(totalIn), money(totalOut),
			money(expectedClosing), money(summary.ClosingBalance)))
	}

	return warnings
}
