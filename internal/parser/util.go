package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// amountPattern matches a money-shaped token: digit groups with optional
// thousands separators and exactly two decimal places.
var amountPattern = regexp.MustCompile(`^[\d,]+\.\d{2}$`)

// parseAmount converts a string like "1,234.56" or "£1,234.56" to a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseDateParts builds a date from day, month abbreviation and two-digit
// year, e.g. "5", "Jan", "24".
func parseDateParts(day, month, year string) (time.Time, bool) {
	t, err := time.Parse("2 Jan 06", day+" "+month+" "+year)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// accountNumberPattern matches typical UK bank account numbers (8 digits).
var accountNumberPattern = regexp.MustCompile(`\b(\d{8})\b`)

// sortCodePattern matches typical UK sort codes (XX-XX-XX).
var sortCodePattern = regexp.MustCompile(`\b(\d{2}-\d{2}-\d{2})\b`)

func findAccountNumber(text string) string {
	return accountNumberPattern.FindString(text)
}

func findSortCode(text string) string {
	return sortCodePattern.FindString(text)
}

// containsAnyFold reports whether text contains any of the needles,
// ignoring case.
func containsAnyFold(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if needle != "" && strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
