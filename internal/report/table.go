package report

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/recommend"
)

// WriteTable prints the ranked results as a bordered terminal table.
func WriteTable(w io.Writer, res *recommend.Result) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(res.Columns)
	table.AppendBulk(Rows(res))
	table.Render()
}

// WriteTrendsTable prints the date × region price matrix.
func WriteTrendsTable(w io.Writer, m recommend.TrendMatrix) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(append([]string{dataset.ColDate}, m.Regions...))
	for i, d := range m.Dates {
		row := []string{d.Format(dataset.DateLayout)}
		for _, p := range m.Prices[i] {
			row = append(row, FormatValue(dataset.ColHomePrice, p))
		}
		table.Append(row)
	}
	table.Render()
}
