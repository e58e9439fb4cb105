// Package report renders query results for people: Markdown, terminal
// tables, CSV and XLSX downloads, and PNG charts.
package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/recommend"
)

const (
	Title    = "Nestor: Smart Home State Recommendations"
	Subtitle = "Best States to Consider Based on Economic & Housing Metrics"

	// DownloadFilename is the name offered for the CSV download.
	DownloadFilename = "nestor_recommendations.csv"
)

// AboutDesirability explains the precomputed score the ranking uses.
const AboutDesirability = `The Desirability Score is a composite of:
- Home affordability
- Unemployment rate
- Job growth
- School quality
- Crime rate (lower is better)
- Healthcare access (simulated for demonstration)

Data sources include HUD, FBI, FRED, and public housing statistics.`

// ErrNothingToExport is returned by the writers when the result is empty.
var ErrNothingToExport = errors.New("no matching results to export")

// Headline is the result-count line shown above the table.
func Headline(res *recommend.Result) string {
	return fmt.Sprintf("%d Matching Results", res.Count())
}

// TopPick returns the highlight line for the best record, if any.
func TopPick(res *recommend.Result) (string, bool) {
	top, ok := res.Top()
	if !ok {
		return "", false
	}
	if math.IsNaN(top.DesirabilityScore) {
		return fmt.Sprintf("Top Pick: %s — Score: n/a", top.RegionName), true
	}
	return fmt.Sprintf("Top Pick: %s — Score: %.3f", top.RegionName, top.DesirabilityScore), true
}

// FormatValue renders one cell for display.
func FormatValue(col string, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		switch col {
		case dataset.ColHomePrice:
			return strconv.FormatFloat(x, 'f', 0, 64)
		case dataset.ColDesirabilityScore:
			return strconv.FormatFloat(x, 'f', 3, 64)
		case dataset.ColMurder, dataset.ColAssault, dataset.ColRape, dataset.ColCrimeRateRaw:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		return strconv.FormatFloat(x, 'f', 2, 64)
	}
	return fmt.Sprint(v)
}

// Rows returns the ranked records as display strings in res.Columns order.
func Rows(res *recommend.Result) [][]string {
	out := make([][]string, 0, res.Count())
	for _, rec := range res.Ranked.Records() {
		row := make([]string, len(res.Columns))
		for j, col := range res.Columns {
			row[j] = FormatValue(col, rec.Field(col))
		}
		out = append(out, row)
	}
	return out
}
