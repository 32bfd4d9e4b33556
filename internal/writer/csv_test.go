package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{Date: date(2024, time.January, 5), PaymentType: "DD", Description: "Direct Debit ABC ", PaidOut: amount("12.50")},
		{Date: date(2024, time.January, 16), PaymentType: "CR", Description: "SALARY", PaidIn: amount("2500"), Balance: amount("3734.56")},
	}
}

func TestRow(t *testing.T) {
	rows := Rows{Bank: "hsbc", Currency: "£"}
	tests := []struct {
		name string
		tx   models.Transaction
		want []string
	}{
		{
			name: "expense",
			tx:   models.Transaction{Date: date(2024, time.January, 5), Description: "  Direct Debit ABC ", PaidOut: amount("12.50")},
			want: []string{"05/01/2024", "hsbc", "Direct Debit ABC", "", "-£12.50"},
		},
		{
			name: "income",
			tx:   models.Transaction{Date: date(2023, time.December, 31), Description: "SALARY", PaidIn: amount("1234.5")},
			want: []string{"31/12/2023", "hsbc", "SALARY", "£1234.50", ""},
		},
		{
			name: "zero amounts are empty",
			tx:   models.Transaction{Date: date(2024, time.March, 1), Description: "X", PaidIn: amount("0.00"), PaidOut: amount("7")},
			want: []string{"01/03/2024", "hsbc", "X", "", "-£7.00"},
		},
		{
			name: "both set",
			tx:   models.Transaction{Date: date(2024, time.March, 1), Description: "odd", PaidIn: amount("1.00"), PaidOut: amount("2.00")},
			want: []string{"01/03/2024", "hsbc", "odd", "£1.00", "-£2.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rows.Row(tt.tx))
		})
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter("hsbc", "£")
	require.NoError(t, w.Write(&buf, sampleTransactions()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Bank,Description,Income,Expenses", lines[0])
	assert.Equal(t, "05/01/2024,hsbc,Direct Debit ABC,,-£12.50", lines[1])
	assert.Equal(t, "16/01/2024,hsbc,SALARY,£2500.00,", lines[2])
}

func TestCSVWriter_WriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter("hsbc", "£").Write(&buf, nil))
	assert.Equal(t, "Date,Bank,Description,Income,Expenses\n", buf.String())
}

func TestCSVWriter_WriteCombined(t *testing.T) {
	feb := []models.Transaction{
		{Date: date(2024, time.February, 2), Description: "feb", PaidOut: amount("1.00")},
	}
	jan := sampleTransactions()

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter("hsbc", "£").WriteCombined(&buf, feb, jan))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Bank,Description,Income,Expenses", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "05/01/2024"))
	assert.True(t, strings.HasPrefix(lines[2], "16/01/2024"))
	assert.True(t, strings.HasPrefix(lines[3], "02/02/2024"))
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "statement.csv")
	require.NoError(t, NewCSVWriter("hsbc", "£").WriteToFile(path, sampleTransactions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Direct Debit ABC")
}

func TestNew(t *testing.T) {
	w, err := New("CSV", "hsbc", "£")
	require.NoError(t, err)
	assert.IsType(t, &CSVWriter{}, w)

	w, err = New("xlsx", "hsbc", "£")
	require.NoError(t, err)
	assert.IsType(t, &XLSXWriter{}, w)

	_, err = New("pdf", "hsbc", "£")
	assert.Error(t, err)

	assert.Equal(t, ".xlsx", Extension("XLSX"))
}
