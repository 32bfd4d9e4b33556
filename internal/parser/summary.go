package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

var (
	openingBalancePattern = regexp.MustCompile(`(?i)Opening\s*Balance\s*£?([\d,]+\.\d{2})`)
	closingBalancePattern = regexp.MustCompile(`(?i)Closing\s*Balance\s*£?([\d,]+\.\d{2})`)
	paymentsInPattern     = regexp.MustCompile(`(?i)Payments?\s*In\s*£?([\d,]+\.\d{2})`)
	paymentsOutPattern    = regexp.MustCompile(`(?i)Payments?\s*Out\s*£?([\d,]+\.\d{2})`)

	// "1 January to 31 January 2024"; the start year is optional.
	periodPattern = regexp.MustCompile(`(?i)\b(\d{1,2}\s+[a-z]{3,9})(?:\s+(\d{4}))?\s+to\s+(\d{1,2}\s+[a-z]{3,9})\s+(\d{4})\b`)
)

// ExtractSummary pulls the account summary totals out of statement text.
// It needs at least two of the four totals; the rest default to zero.
func ExtractSummary(text string) *models.StatementSummary {
	found := 0
	find := func(pat *regexp.Regexp) decimal.Decimal {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			return decimal.Zero
		}
		amt, err := parseAmount(m[1])
		if err != nil {
			return decimal.Zero
		}
		found++
		return amt
	}

	summary := &models.StatementSummary{
		OpeningBalance: find(openingBalancePattern),
		ClosingBalance: find(closingBalancePattern),
		PaymentsIn:     find(paymentsInPattern),
		PaymentsOut:    find(paymentsOutPattern),
	}
	if found < 2 {
		return nil
	}

	if start, end, ok := extractPeriod(text); ok {
		summary.StatementStart = &start
		summary.StatementEnd = &end
	}
	return summary
}

// extractPeriod finds the statement date range.
func extractPeriod(text string) (start, end time.Time, ok bool) {
	for _, m := range periodPattern.FindAllStringSubmatch(text, -1) {
		end, ok = parseLongDate(m[3], m[4])
		if !ok {
			continue
		}
		startYear := m[2]
		if startYear == "" {
			startYear = m[4]
		}
		start, ok = parseLongDate(m[1], startYear)
		if !ok {
			continue
		}
		if m[2] == "" && start.After(end) {
			start = start.AddDate(-1, 0, 0)
		}
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

func parseLongDate(dayMonth, year string) (time.Time, bool) {
	value := strings.Join(strings.Fields(dayMonth), " ") + " " + year
	for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
