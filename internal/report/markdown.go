package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/recommend"
)

// Markdown renders the whole dashboard for one result as a Markdown document.
func Markdown(res *recommend.Result) string {
	var b strings.Builder
	b.WriteString("# " + Title + "\n\n")
	b.WriteString("### " + Subtitle + "\n\n")
	b.WriteString(fmt.Sprintf("Filter: %s\n\n", res.Query.Mode().Label()))

	if res.Warning != "" {
		b.WriteString("> ⚠ " + res.Warning + "\n\n")
	}
	if line, ok := TopPick(res); ok {
		b.WriteString("**" + line + "**\n\n")
	}
	b.WriteString("### " + Headline(res) + "\n\n")
	if len(res.Columns) > 0 && !res.Empty() {
		b.WriteString("| " + strings.Join(res.Columns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(res.Columns)) + "\n")
		for _, row := range Rows(res) {
			for i := range row {
				row[i] = escapeCell(row[i])
			}
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		b.WriteString("\n")
	}

	if bars := res.Bars(); len(bars) > 0 {
		b.WriteString("### Top Region(s) by Desirability Score\n\n")
		for i, bar := range bars {
			b.WriteString(fmt.Sprintf("%d. %s (%.3f)\n", i+1, bar.Region, bar.Score))
		}
		b.WriteString("\n")
	}
	if m := res.Trends(); !m.Empty() {
		b.WriteString("### Price Trends Over Time for Top Regions\n\n")
		b.WriteString(TrendsMarkdown(m))
		b.WriteString("\n")
	}

	b.WriteString("### About the Desirability Score\n\n")
	b.WriteString(AboutDesirability + "\n")
	return b.String()
}

// TrendsMarkdown renders the trend matrix as a Markdown table, one row per date.
func TrendsMarkdown(m recommend.TrendMatrix) string {
	var b strings.Builder
	b.WriteString("| " + dataset.ColDate + " | " + strings.Join(m.Regions, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(m.Regions)+1) + "\n")
	for i, d := range m.Dates {
		cells := make([]string, 0, len(m.Regions)+1)
		cells = append(cells, d.Format(dataset.DateLayout))
		for _, p := range m.Prices[i] {
			cells = append(cells, FormatValue(dataset.ColHomePrice, p))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func escapeCell(s string) string { return strings.ReplaceAll(s, "|", "\\|") }
