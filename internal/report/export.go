package report

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/recommend"
)

// WriteCSV writes every enriched column of the matching records, in source
// order, as comma-separated text with a header row.
func WriteCSV(w io.Writer, res *recommend.Result) error {
	if res.Empty() {
		return ErrNothingToExport
	}
	df, err := res.Matches.Frame()
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CSV returns the download body produced by WriteCSV.
func CSV(res *recommend.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	sheetResults = "Recommendations"
	sheetTrends  = "Price Trends"
)

// WriteXLSX writes a workbook with the ranked display columns on one sheet
// and the price-trend matrix on another.
func WriteXLSX(w io.Writer, res *recommend.Result) error {
	if res.Empty() {
		return ErrNothingToExport
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetResults); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	header := make([]any, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	if err := setRow(f, sheetResults, 1, header); err != nil {
		return err
	}
	for i, rec := range res.Ranked.Records() {
		row := make([]any, len(res.Columns))
		for j, col := range res.Columns {
			row[j] = cellValue(rec.Field(col))
		}
		if err := setRow(f, sheetResults, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetResults, "A", "A", 22); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	m := res.Trends()
	if !m.Empty() {
		if _, err := f.NewSheet(sheetTrends); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		header := []any{dataset.ColDate}
		for _, r := range m.Regions {
			header = append(header, r)
		}
		if err := setRow(f, sheetTrends, 1, header); err != nil {
			return err
		}
		for i, d := range m.Dates {
			row := []any{d.Format(dataset.DateLayout)}
			for _, p := range m.Prices[i] {
				row = append(row, cellValue(p))
			}
			if err := setRow(f, sheetTrends, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

// cellValue leaves missing numbers as blank cells.
func cellValue(v any) any {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return nil
	}
	return v
}
