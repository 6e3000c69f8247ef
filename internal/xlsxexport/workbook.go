// Package xlsxexport renders normalized result tables as Excel workbooks.
package xlsxexport

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"ingestdesk/internal/normalize"
)

const (
	// SheetName is the single sheet every export contains.
	SheetName = "Resultados"

	maxColumnWidth = 50
	defaultSheet   = "Sheet1"
)

// Write renders t into a one-sheet workbook and writes it to w. Each column is
// as wide as its longest cell or header, capped at 50 characters.
func Write(w io.Writer, t normalize.Table, locale string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return fmt.Errorf("xlsxexport.Write: rename sheet: %w", err)
	}

	cells := t.Cells(locale)
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("xlsxexport.Write: stream writer: %w", err)
	}

	// Widths must be declared before the first row is streamed.
	for i, width := range ColumnWidths(t.Columns, cells) {
		if err := sw.SetColWidth(i+1, i+1, float64(width)); err != nil {
			return fmt.Errorf("xlsxexport.Write: column width: %w", err)
		}
	}

	if err := sw.SetRow("A1", toRow(t.Columns)); err != nil {
		return fmt.Errorf("xlsxexport.Write: header: %w", err)
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsxexport.Write: %w", err)
		}
		if err := sw.SetRow(cell, toRow(row)); err != nil {
			return fmt.Errorf("xlsxexport.Write: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsxexport.Write: flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsxexport.Write: %w", err)
	}
	return nil
}

// ColumnWidths returns min(max(len(header), len(longest cell)), 50) per
// column, counted in characters.
func ColumnWidths(columns []string, rows [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := utf8.RuneCountInString(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
		if widths[i] == 0 {
			widths[i] = 1
		}
	}
	return widths
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
