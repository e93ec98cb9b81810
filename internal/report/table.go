package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format selects the tabular output encoding.
type Format string

// Supported output formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat resolves the output format from an explicit flag value,
// falling back to the output filename's extension, then CSV.
func DetectFormat(flag string, outputPath string) (Format, error) {
	switch strings.ToLower(flag) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported format %q", flag)
	}
	if strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		return FormatXLSX, nil
	}
	return FormatCSV, nil
}

// WriteTable serializes a header plus rows to the given path in the
// requested format.
func WriteTable(format Format, path string, header []string, rows [][]string) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(path, header, rows)
	default:
		return writeCSV(path, header, rows)
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeXLSX(path string, header []string, rows [][]string) error {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", rowIdx, err)
		}
		converted := make([]any, len(values))
		for i, v := range values {
			converted[i] = v
		}
		if err := book.SetSheetRow(sheet, cell, &converted); err != nil {
			return fmt.Errorf("set sheet row %d: %w", rowIdx, err)
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return err
		}
	}
	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}
