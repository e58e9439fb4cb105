package recommend

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/nestor/internal/dataset"
)

// TrendMatrix is HomePrice pivoted by date (rows) and region (columns).
// Prices[i][j] is the mean price of Regions[j] on Dates[i], NaN when the
// region has no observation that day.
type TrendMatrix struct {
	Dates   []time.Time
	Regions []string
	Prices  [][]float64
}

// Empty reports whether the matrix has no cells.
func (m TrendMatrix) Empty() bool { return len(m.Dates) == 0 || len(m.Regions) == 0 }

// Series returns the price column for region, aligned with Dates.
func (m TrendMatrix) Series(region string) ([]float64, bool) {
	j := sort.SearchStrings(m.Regions, region)
	if j >= len(m.Regions) || m.Regions[j] != region {
		return nil, false
	}
	out := make([]float64, len(m.Dates))
	for i := range m.Dates {
		out[i] = m.Prices[i][j]
	}
	return out, true
}

// MarshalJSON encodes missing prices as null.
func (m TrendMatrix) MarshalJSON() ([]byte, error) {
	type wire struct {
		Dates   []string     `json:"dates"`
		Regions []string     `json:"regions"`
		Prices  [][]*float64 `json:"prices"`
	}
	w := wire{
		Dates:   make([]string, len(m.Dates)),
		Regions: m.Regions,
		Prices:  make([][]*float64, len(m.Prices)),
	}
	if w.Regions == nil {
		w.Regions = []string{}
	}
	for i, d := range m.Dates {
		w.Dates[i] = d.Format(dataset.DateLayout)
	}
	for i, row := range m.Prices {
		w.Prices[i] = make([]*float64, len(row))
		for j, p := range row {
			if !math.IsNaN(p) {
				v := p
				w.Prices[i][j] = &v
			}
		}
	}
	return json.Marshal(w)
}

// PriceTrends pivots every record of the named regions in t, regardless of
// any filter, into a TrendMatrix. Regions are sorted by name and dates
// ascend; duplicate (date, region) observations are averaged.
func PriceTrends(t *dataset.Table, regions []string) TrendMatrix {
	if t == nil || len(regions) == 0 {
		return TrendMatrix{}
	}
	v := t.Regions(regions)
	if v.Empty() {
		return TrendMatrix{}
	}

	type cell struct {
		sum float64
		n   int
	}
	type key struct {
		day    time.Time
		region string
	}
	cells := make(map[key]*cell)
	seenDay := make(map[time.Time]bool)
	seenRegion := make(map[string]bool)
	var m TrendMatrix
	for _, r := range v.Records() {
		k := key{day: r.Date, region: r.RegionName}
		if !seenDay[r.Date] {
			seenDay[r.Date] = true
			m.Dates = append(m.Dates, r.Date)
		}
		if !seenRegion[r.RegionName] {
			seenRegion[r.RegionName] = true
			m.Regions = append(m.Regions, r.RegionName)
		}
		c := cells[k]
		if c == nil {
			c = &cell{}
			cells[k] = c
		}
		if !math.IsNaN(r.HomePrice) {
			c.sum += r.HomePrice
			c.n++
		}
	}
	sort.Slice(m.Dates, func(i, j int) bool { return m.Dates[i].Before(m.Dates[j]) })
	sort.Strings(m.Regions)

	m.Prices = make([][]float64, len(m.Dates))
	for i, d := range m.Dates {
		row := make([]float64, len(m.Regions))
		for j, name := range m.Regions {
			row[j] = math.NaN()
			if c := cells[key{day: d, region: name}]; c != nil && c.n > 0 {
				row[j] = c.sum / float64(c.n)
			}
		}
		m.Prices[i] = row
	}
	return m
}
