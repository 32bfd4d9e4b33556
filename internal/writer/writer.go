package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// Writer renders transactions in one output format.
type Writer interface {
	Write(out io.Writer, txns []models.Transaction) error
	WriteToFile(path string, txns []models.Transaction) error
	WriteCombined(out io.Writer, lists ...[]models.Transaction) error
}

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// New returns the writer for format ("csv" or "xlsx").
func New(format, bank, currency string) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVWriter(bank, currency), nil
	case FormatXLSX:
		return NewXLSXWriter(bank, currency), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use csv or xlsx)", format)
	}
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	return "." + strings.ToLower(format)
}
