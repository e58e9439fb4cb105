package recommend

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/nestor/internal/dataset"
)

// TopN is the size of the chart subset.
const TopN = 5

// Result is the outcome of one query against a table. The views share the
// table's storage; nothing is copied or re-normalized.
type Result struct {
	Query Query
	// Columns are the display columns for the query's mode. Empty when the
	// mode is unavailable.
	Columns []string
	// Matches holds the filtered records in source order.
	Matches dataset.View
	// Ranked holds the same records ordered by descending DesirabilityScore.
	Ranked dataset.View
	// Unavailable is set when the mode needs a column the table lacks.
	Unavailable *FeatureUnavailableError
	Warning     string
}

// Count returns the number of matching records.
func (r *Result) Count() int { return r.Ranked.Len() }

// Empty reports whether nothing matched.
func (r *Result) Empty() bool { return r.Ranked.Empty() }

// Top returns the highest-ranked record.
func (r *Result) Top() (dataset.Record, bool) {
	if r.Ranked.Empty() {
		return dataset.Record{}, false
	}
	return r.Ranked.At(0), true
}

// TopN returns the first TopN ranked records (fewer if there are fewer).
func (r *Result) TopN() dataset.View { return r.Ranked.Head(TopN) }

// Bar is one entry of the top-regions chart.
type Bar struct {
	Region string  `json:"region"`
	Score  float64 `json:"score"`
}

// Bars returns (region, score) pairs for the top records. Records without
// a score are left out.
func (r *Result) Bars() []Bar {
	top := r.TopN()
	out := make([]Bar, 0, top.Len())
	for _, rec := range top.Records() {
		if math.IsNaN(rec.DesirabilityScore) {
			continue
		}
		out = append(out, Bar{Region: rec.RegionName, Score: rec.DesirabilityScore})
	}
	return out
}

// Trends returns the full price history of the top regions.
func (r *Result) Trends() TrendMatrix {
	top := r.TopN()
	if top.Empty() {
		return TrendMatrix{}
	}
	names := make([]string, 0, top.Len())
	for _, rec := range top.Records() {
		names = append(names, rec.RegionName)
	}
	return PriceTrends(top.Table(), names)
}

// Filter applies q to t and ranks what matches. The only error is an
// invalid query; a mode whose column is missing returns an empty result
// with Unavailable set.
func Filter(t *dataset.Table, q Query) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("filter: no dataset")
	}
	if err := Validate(q); err != nil {
		return nil, err
	}
	floor := q.MinSchoolRating()
	res := &Result{Query: q}

	var keep func(dataset.Record) bool
	switch q := q.(type) {
	case Budget:
		res.Columns = []string{dataset.ColRegionName, dataset.ColDate, dataset.ColHomePrice, dataset.ColSchoolRating, dataset.ColCrimeRate, dataset.ColDesirabilityScore}
		keep = func(r dataset.Record) bool {
			return r.HomePrice >= q.MinPrice && r.HomePrice <= q.MaxPrice && r.SchoolRating >= floor
		}
	case Bedrooms:
		if !t.Has(dataset.ColBedrooms) {
			return unavailable(t, res, dataset.ColBedrooms), nil
		}
		res.Columns = []string{dataset.ColRegionName, dataset.ColDate, dataset.ColBedrooms, dataset.ColSchoolRating, dataset.ColCrimeRate, dataset.ColDesirabilityScore}
		keep = func(r dataset.Record) bool {
			return r.Bedrooms == q.Bedrooms && r.SchoolRating >= floor
		}
	case CrimeRate:
		res.Columns = []string{dataset.ColRegionName, dataset.ColDate, dataset.ColCrimeRate, dataset.ColSchoolRating, dataset.ColDesirabilityScore}
		keep = func(r dataset.Record) bool {
			return r.CrimeRate <= q.MaxCrime && r.SchoolRating >= floor
		}
	case HealthcareAccess:
		if !t.Has(dataset.ColHealthcareAccess) {
			return unavailable(t, res, dataset.ColHealthcareAccess), nil
		}
		res.Columns = []string{dataset.ColRegionName, dataset.ColDate, dataset.ColHealthcareAccess, dataset.ColSchoolRating, dataset.ColCrimeRate, dataset.ColDesirabilityScore}
		keep = func(r dataset.Record) bool {
			return r.HealthcareAccess >= q.MinHealthcare && r.SchoolRating >= floor
		}
	default:
		return nil, &InvalidQueryError{Field: "mode", Value: q.Mode(), Reason: "unsupported query type"}
	}

	res.Matches = t.Where(keep)
	res.Ranked = Rank(res.Matches)
	return res, nil
}

func unavailable(t *dataset.Table, res *Result, col string) *Result {
	res.Unavailable = &FeatureUnavailableError{Mode: res.Query.Mode(), Column: col}
	res.Warning = res.Unavailable.Warning()
	res.Matches = t.Select(nil)
	res.Ranked = res.Matches
	return res
}

// Rank orders v by descending DesirabilityScore. Equal scores keep their
// order in v; missing scores sort last.
func Rank(v dataset.View) dataset.View {
	return v.SortStable(func(a, b dataset.Record) bool {
		as, bs := a.DesirabilityScore, b.DesirabilityScore
		if math.IsNaN(bs) {
			return !math.IsNaN(as)
		}
		return as > bs
	})
}
