package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"25.99", "25.99", false},
		{"1,234.56", "1234.56", false},
		{"£25.99", "25.99", false},
		{"£1,234,567.89", "1234567.89", false},
		{"0.00", "0", false},
		{"", "0", false},
		{" 25.99 ", "25.99", false},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAmountPattern(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"12.50", true},
		{"1,234.56", true},
		{"0.00", true},
		{"12.5", false},
		{"12.505", false},
		{"£12.50", false},
		{"-12.50", false},
		{"12", false},
		{"ABC", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := amountPattern.MatchString(tt.input); got != tt.expected {
				t.Errorf("amountPattern(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDateParts(t *testing.T) {
	tests := []struct {
		day, month, year string
		want             time.Time
		ok               bool
	}{
		{"5", "Jan", "24", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), true},
		{"05", "Jan", "24", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), true},
		{"31", "Dec", "23", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), true},
		{"31", "Feb", "24", time.Time{}, false},
		{"Jan", "5", "24", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.day+" "+tt.month+" "+tt.year, func(t *testing.T) {
			got, ok := parseDateParts(tt.day, tt.month, tt.year)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindAccountNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Account number: 12345678", "12345678"},
		{"Account: 87654321 Sort code: 40-00-00", "87654321"},
		{"no account here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := findAccountNumber(tt.input)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFindSortCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Sortcode 40-12-34", "40-12-34"},
		{"Sort code 40-12-34 Account", "40-12-34"},
		{"no sort code", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := findSortCode(tt.input)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
