package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/nestor/internal/dataset"
)

// Report is a markdown-friendly profile of an enriched housing table.
type Report struct {
	Name      string          `json:"name"`
	DatasetID string          `json:"dataset_id"`
	Rows      int             `json:"rows"`
	Columns   []string        `json:"columns"`
	Cols      []ColumnSummary `json:"summaries"`
	Regions   int             `json:"regions"`
	FirstDate string          `json:"first_date,omitempty"`
	LastDate  string          `json:"last_date,omitempty"`
	Corr      []PairCorr      `json:"desirability_correlations,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
	// Synthesized lists derived or generated columns.
	Synthesized []string `json:"synthesized"`
}

// ColumnSummary captures statistics per column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // numeric|datetime|categorical
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique,omitempty"`
	// Numeric stats
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers,omitempty"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty"`
	// Categorical top values
	TopValues []CategoryCount `json:"top_values,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// PairCorr is a Pearson correlation between two numeric columns.
type PairCorr struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

const (
	outlierZ  = 3.5
	topValues = 5
)

// numericCols are profiled in this order when present.
var numericCols = []string{
	dataset.ColHomePrice, dataset.ColBedrooms,
	dataset.ColMurder, dataset.ColAssault, dataset.ColRape,
	dataset.ColCrimeRateRaw, dataset.ColCrimeRate,
	dataset.ColSchoolRating, dataset.ColHealthcareAccess,
	dataset.ColDesirabilityScore,
}

// Profile summarizes every column of t after enrichment.
func Profile(t *dataset.Table) *Report {
	r := &Report{
		Name:      t.Source,
		DatasetID: t.ID,
		Rows:      t.Len(),
		Columns:   t.Columns(),
		Warnings:  append([]string(nil), t.Warnings...),
	}
	r.Synthesized = []string{dataset.ColCrimeRateRaw, dataset.ColCrimeRate}
	if t.HealthcareSynthesized {
		r.Synthesized = append(r.Synthesized, dataset.ColHealthcareAccess)
	}

	r.Cols = append(r.Cols, regionSummary(t))
	ds := dateSummary(t)
	r.Cols = append(r.Cols, ds)
	r.Regions = r.Cols[0].Unique
	if t.Len() > 0 {
		first, last := t.Record(0).Date, t.Record(0).Date
		for i := 1; i < t.Len(); i++ {
			d := t.Record(i).Date
			if d.Before(first) {
				first = d
			}
			if d.After(last) {
				last = d
			}
		}
		r.FirstDate = first.Format(dataset.DateLayout)
		r.LastDate = last.Format(dataset.DateLayout)
	}

	values := make(map[string][]float64)
	for _, col := range numericCols {
		if !t.Has(col) {
			continue
		}
		xs := column(t, col)
		values[col] = xs
		r.Cols = append(r.Cols, numericSummary(col, xs))
	}

	score := values[dataset.ColDesirabilityScore]
	for _, col := range numericCols {
		xs, ok := values[col]
		if !ok || col == dataset.ColDesirabilityScore {
			continue
		}
		if rr, ok := correlation(xs, score); ok {
			r.Corr = append(r.Corr, PairCorr{A: col, B: dataset.ColDesirabilityScore, R: rr})
		}
	}
	sort.SliceStable(r.Corr, func(i, j int) bool { return math.Abs(r.Corr[i].R) > math.Abs(r.Corr[j].R) })
	return r
}

func column(t *dataset.Table, col string) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		switch v := t.Record(i).Field(col).(type) {
		case float64:
			out[i] = v
		case int:
			out[i] = float64(v)
		default:
			out[i] = math.NaN()
		}
	}
	return out
}

func present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

func numericSummary(name string, xs []float64) ColumnSummary {
	vals := present(xs)
	c := ColumnSummary{Name: name, Kind: "numeric", NonNull: len(vals), Missing: len(xs) - len(vals)}
	if len(vals) == 0 {
		return c
	}
	c.Min, _ = stats.Min(vals)
	c.Max, _ = stats.Max(vals)
	c.Mean, c.Std = stat.MeanStdDev(vals, nil)
	if math.IsNaN(c.Std) {
		c.Std = 0
	}
	if len(vals) >= 8 {
		median, _ := stats.Median(vals)
		mad, _ := stats.MedianAbsoluteDeviation(vals)
		if mad > 0 {
			c.OutlierThreshold = outlierZ
			for _, v := range vals {
				if math.Abs(0.6745*(v-median)/mad) > outlierZ {
					c.OutliersCount++
				}
			}
		}
	}
	return c
}

func correlation(xs, ys []float64) (float64, bool) {
	if len(xs) != len(ys) {
		return 0, false
	}
	var a, b []float64
	for i := range xs {
		if !math.IsNaN(xs[i]) && !math.IsNaN(ys[i]) {
			a = append(a, xs[i])
			b = append(b, ys[i])
		}
	}
	if len(a) < 3 {
		return 0, false
	}
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

func regionSummary(t *dataset.Table) ColumnSummary {
	counts := make(map[string]int)
	c := ColumnSummary{Name: dataset.ColRegionName, Kind: "categorical"}
	for i := 0; i < t.Len(); i++ {
		name := t.Record(i).RegionName
		if name == "" {
			c.Missing++
			continue
		}
		c.NonNull++
		counts[name]++
	}
	c.Unique = len(counts)
	tops := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		tops = append(tops, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > topValues {
		tops = tops[:topValues]
	}
	c.TopValues = tops
	return c
}

func dateSummary(t *dataset.Table) ColumnSummary {
	seen := make(map[string]bool)
	for i := 0; i < t.Len(); i++ {
		seen[t.Record(i).Date.Format(dataset.DateLayout)] = true
	}
	return ColumnSummary{Name: dataset.ColDate, Kind: "datetime", NonNull: t.Len(), Unique: len(seen)}
}

// Markdown renders the report in the same bracketed layout the CLI prints.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Regions: %d\n", r.Regions))
	if r.FirstDate != "" {
		b.WriteString(fmt.Sprintf("Dates: %s to %s\n", r.FirstDate, r.LastDate))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 && c.OutliersCount > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "datetime":
			b.WriteString(fmt.Sprintf(" — %d distinct dates", c.Unique))
		}
		b.WriteString("\n")
	}

	if len(r.Corr) > 0 {
		b.WriteString("\n[CORRELATION WITH DESIRABILITY]\n")
		for _, p := range r.Corr {
			b.WriteString(fmt.Sprintf("- %s: r=%.3f\n", p.A, p.R))
		}
	}
	if len(r.Synthesized) > 0 {
		b.WriteString("\n[DERIVED COLUMNS]\n")
		b.WriteString(strings.Join(r.Synthesized, ", "))
		b.WriteString("\n")
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
