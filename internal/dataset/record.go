package dataset

import (
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Column names as they appear in the source file and in exports.
const (
	ColRegionName        = "RegionName"
	ColDate              = "Date"
	ColHomePrice         = "HomePrice"
	ColBedrooms          = "Bedrooms"
	ColMurder            = "Murder"
	ColAssault           = "Assault"
	ColRape              = "Rape"
	ColSchoolRating      = "SchoolRating"
	ColHealthcareAccess  = "HealthcareAccess"
	ColDesirabilityScore = "DesirabilityScore"
	ColCrimeRateRaw      = "CrimeRateRaw"
	ColCrimeRate         = "CrimeRate"
)

// RequiredColumns must be present in every source.
var RequiredColumns = []string{
	ColRegionName, ColDate, ColHomePrice,
	ColMurder, ColAssault, ColRape,
	ColSchoolRating, ColDesirabilityScore,
}

// Record is one observation of a region at a point in time, after enrichment.
type Record struct {
	// Row is the 0-based position of the record in the source file.
	Row               int       `json:"row"`
	RegionName        string    `json:"region_name"`
	Date              time.Time `json:"date"`
	HomePrice         float64   `json:"home_price"`
	Bedrooms          int       `json:"bedrooms,omitempty"` // 0 when unknown
	Murder            float64   `json:"murder"`
	Assault           float64   `json:"assault"`
	Rape              float64   `json:"rape"`
	SchoolRating      float64   `json:"school_rating"`
	HealthcareAccess  float64   `json:"healthcare_access"`
	DesirabilityScore float64   `json:"desirability_score"`
	CrimeRateRaw      float64   `json:"crime_rate_raw"`
	CrimeRate         float64   `json:"crime_rate"`
}

// Field returns the value of the named column for display or serialization.
// Unknown columns yield nil.
func (r Record) Field(col string) any {
	switch col {
	case ColRegionName:
		return r.RegionName
	case ColDate:
		return r.Date.Format(DateLayout)
	case ColHomePrice:
		return r.HomePrice
	case ColBedrooms:
		if r.Bedrooms == 0 {
			return nil
		}
		return r.Bedrooms
	case ColMurder:
		return r.Murder
	case ColAssault:
		return r.Assault
	case ColRape:
		return r.Rape
	case ColSchoolRating:
		return r.SchoolRating
	case ColHealthcareAccess:
		return r.HealthcareAccess
	case ColDesirabilityScore:
		return r.DesirabilityScore
	case ColCrimeRateRaw:
		return r.CrimeRateRaw
	case ColCrimeRate:
		return r.CrimeRate
	}
	return nil
}

// DateLayout is used whenever a record date is rendered as text.
const DateLayout = "2006-01-02"

// Table is the enriched dataset. It is never modified after Load returns;
// filtering produces Views over it.
type Table struct {
	// ID changes on every load so that clients can detect a reload.
	ID       string
	Source   string
	LoadedAt time.Time

	// HealthcareSynthesized reports whether HealthcareAccess was generated.
	HealthcareSynthesized bool
	// CrimeScale and SchoolScale are the scalers fitted during Load.
	CrimeScale  MinMaxScaler
	SchoolScale MinMaxScaler
	// Warnings collects recoverable conditions met while loading.
	Warnings []string

	records []Record
	frame   dataframe.DataFrame
	columns map[string]bool
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Record returns the i-th record in source order.
func (t *Table) Record(i int) Record { return t.records[i] }

// Has reports whether the enriched table carries the named column.
func (t *Table) Has(col string) bool { return t.columns[col] }

// Columns lists the enriched column names in export order.
func (t *Table) Columns() []string { return t.frame.Names() }

// All returns a view over every record in source order.
func (t *Table) All() View {
	idx := make([]int, len(t.records))
	for i := range idx {
		idx[i] = i
	}
	return View{table: t, idx: idx}
}

// Regions returns every record whose RegionName is in names, in source order.
func (t *Table) Regions(names []string) View {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	idx := make([]int, 0)
	for i, r := range t.records {
		if want[r.RegionName] {
			idx = append(idx, i)
		}
	}
	return View{table: t, idx: idx}
}

func isMissing(f float64) bool { return math.IsNaN(f) }
