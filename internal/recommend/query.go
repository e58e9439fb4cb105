package recommend

import (
	"fmt"
	"math"
)

// Bounds of the user-facing inputs.
const (
	MinRating   = 1.0
	MaxRating   = 10.0
	MinBedrooms = 1
	MaxBedrooms = 5
)

// Query is one filter request. Exactly one of Budget, Bedrooms, CrimeRate
// or HealthcareAccess; every variant also carries the SchoolRating floor.
type Query interface {
	Mode() Mode
	MinSchoolRating() float64
	validate() error
}

// Budget keeps records priced within [MinPrice, MaxPrice]. MinPrice above
// MaxPrice is allowed and matches nothing.
type Budget struct {
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	SchoolRating float64 `json:"school_rating"`
}

// Bedrooms keeps records with exactly Bedrooms bedrooms.
type Bedrooms struct {
	Bedrooms     int     `json:"bedrooms"`
	SchoolRating float64 `json:"school_rating"`
}

// CrimeRate keeps records whose normalized crime rate is at most MaxCrime.
type CrimeRate struct {
	MaxCrime     float64 `json:"max_crime"`
	SchoolRating float64 `json:"school_rating"`
}

// HealthcareAccess keeps records with at least MinHealthcare access.
type HealthcareAccess struct {
	MinHealthcare float64 `json:"min_healthcare"`
	SchoolRating  float64 `json:"school_rating"`
}

func (Budget) Mode() Mode           { return ModeBudget }
func (Bedrooms) Mode() Mode         { return ModeBedrooms }
func (CrimeRate) Mode() Mode        { return ModeCrimeRate }
func (HealthcareAccess) Mode() Mode { return ModeHealthcare }

func (q Budget) MinSchoolRating() float64           { return q.SchoolRating }
func (q Bedrooms) MinSchoolRating() float64         { return q.SchoolRating }
func (q CrimeRate) MinSchoolRating() float64        { return q.SchoolRating }
func (q HealthcareAccess) MinSchoolRating() float64 { return q.SchoolRating }

func (q Budget) validate() error {
	if err := checkNonNegative("min_price", q.MinPrice); err != nil {
		return err
	}
	if err := checkNonNegative("max_price", q.MaxPrice); err != nil {
		return err
	}
	return checkRating("school_rating", q.SchoolRating)
}

func (q Bedrooms) validate() error {
	if q.Bedrooms < MinBedrooms || q.Bedrooms > MaxBedrooms {
		return &InvalidQueryError{Field: "bedrooms", Value: q.Bedrooms, Reason: fmt.Sprintf("must be between %d and %d", MinBedrooms, MaxBedrooms)}
	}
	return checkRating("school_rating", q.SchoolRating)
}

func (q CrimeRate) validate() error {
	if err := checkRating("max_crime", q.MaxCrime); err != nil {
		return err
	}
	return checkRating("school_rating", q.SchoolRating)
}

func (q HealthcareAccess) validate() error {
	if err := checkRating("min_healthcare", q.MinHealthcare); err != nil {
		return err
	}
	return checkRating("school_rating", q.SchoolRating)
}

// Validate checks q's thresholds against their allowed ranges.
func Validate(q Query) error {
	if q == nil {
		return &InvalidQueryError{Field: "query", Reason: "no mode selected"}
	}
	return q.validate()
}

func checkRating(field string, v float64) error {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return &InvalidQueryError{Field: field, Value: v, Reason: fmt.Sprintf("must be between %.1f and %.1f", MinRating, MaxRating)}
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &InvalidQueryError{Field: field, Value: v, Reason: "must be a non-negative amount"}
	}
	return nil
}

// Params is the flat form of a query as it arrives from flags, config or
// URL parameters. Only the fields of the selected Mode are used.
type Params struct {
	Mode          Mode    `json:"mode" yaml:"mode"`
	MinPrice      float64 `json:"min_price" yaml:"min_price"`
	MaxPrice      float64 `json:"max_price" yaml:"max_price"`
	SchoolRating  float64 `json:"school_rating" yaml:"school_rating"`
	Bedrooms      int     `json:"bedrooms" yaml:"bedrooms"`
	MaxCrime      float64 `json:"max_crime" yaml:"max_crime"`
	MinHealthcare float64 `json:"min_healthcare" yaml:"min_healthcare"`
}

// DefaultParams mirrors the initial positions of the dashboard controls.
func DefaultParams() Params {
	return Params{
		Mode:          ModeBudget,
		MinPrice:      100000,
		MaxPrice:      800000,
		SchoolRating:  7.0,
		Bedrooms:      3,
		MaxCrime:      5.0,
		MinHealthcare: 7.0,
	}
}

// Query builds and validates the variant selected by p.Mode.
func (p Params) Query() (Query, error) {
	var q Query
	switch p.Mode {
	case ModeBudget:
		q = Budget{MinPrice: p.MinPrice, MaxPrice: p.MaxPrice, SchoolRating: p.SchoolRating}
	case ModeBedrooms:
		q = Bedrooms{Bedrooms: p.Bedrooms, SchoolRating: p.SchoolRating}
	case ModeCrimeRate:
		q = CrimeRate{MaxCrime: p.MaxCrime, SchoolRating: p.SchoolRating}
	case ModeHealthcare:
		q = HealthcareAccess{MinHealthcare: p.MinHealthcare, SchoolRating: p.SchoolRating}
	default:
		m, err := ParseMode(string(p.Mode))
		if err != nil {
			return nil, err
		}
		p.Mode = m
		return p.Query()
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}
