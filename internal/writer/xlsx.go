package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Transactions"

// XLSXWriter writes the CSV row contract into a spreadsheet.
type XLSXWriter struct {
	Rows
}

// NewXLSXWriter returns an XLSX writer for the given bank literal and currency.
func NewXLSXWriter(bank, currency string) *XLSXWriter {
	return &XLSXWriter{Rows: Rows{Bank: bank, Currency: currency}}
}

func (w *XLSXWriter) build(txns []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, tx := range txns {
		fields := w.Row(tx)
		row := make([]interface{}, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write XLSX row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// Write writes the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, txns []models.Transaction) error {
	f, err := w.build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// WriteToFile saves the workbook at path.
func (w *XLSXWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := w.build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %q: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX %q: %w", path, err)
	}
	return nil
}

// WriteCombined merges several statements and writes them as one sheet.
func (w *XLSXWriter) WriteCombined(out io.Writer, lists ...[]models.Transaction) error {
	return w.Write(out, models.Merge(lists...))
}
