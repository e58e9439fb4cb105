package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/dataset/datasettest"
)

func loadSample(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Load(datasettest.Sample(t), dataset.Options{})
	require.NoError(t, err)
	return tbl
}

func regions(v dataset.View) []string {
	out := make([]string, 0, v.Len())
	for _, r := range v.Records() {
		out = append(out, r.RegionName)
	}
	return out
}

// Normalized SchoolRating in the sample: Austin 4, Boston 8.5, Chicago 1,
// Denver 10. Normalized CrimeRate: Austin 1, Boston 4.6, Chicago 10, Denver 1.

func TestFilterBudget(t *testing.T) {
	tbl := loadSample(t)
	res, err := Filter(tbl, Budget{MinPrice: 100000, MaxPrice: 800000, SchoolRating: 7.0})
	require.NoError(t, err)
	assert.Nil(t, res.Unavailable)
	assert.Equal(t, []int{1, 4, 5}, res.Matches.Indices())
	for _, r := range res.Ranked.Records() {
		assert.GreaterOrEqual(t, r.HomePrice, 100000.0)
		assert.LessOrEqual(t, r.HomePrice, 800000.0)
		assert.GreaterOrEqual(t, r.SchoolRating, 7.0)
	}
	assert.Equal(t, []string{"Denver", "Boston", "Boston"}, regions(res.Ranked))
	assert.Equal(t, []string{
		dataset.ColRegionName, dataset.ColDate, dataset.ColHomePrice,
		dataset.ColSchoolRating, dataset.ColCrimeRate, dataset.ColDesirabilityScore,
	}, res.Columns)

	top, ok := res.Top()
	require.True(t, ok)
	assert.Equal(t, "Denver", top.RegionName)
}

func TestFilterBudgetInvertedRangeIsEmpty(t *testing.T) {
	res, err := Filter(loadSample(t), Budget{MinPrice: 800000, MaxPrice: 100000, SchoolRating: 1})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	_, ok := res.Top()
	assert.False(t, ok)
	assert.Empty(t, res.Bars())
	assert.True(t, res.Trends().Empty())
}

func TestFilterBedrooms(t *testing.T) {
	res, err := Filter(loadSample(t), Bedrooms{Bedrooms: 3, SchoolRating: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Denver", "Austin", "Austin"}, regions(res.Ranked))
	assert.Contains(t, res.Columns, dataset.ColBedrooms)
}

func TestFilterBedroomsUnavailable(t *testing.T) {
	header := "RegionName,Date,HomePrice,Murder,Assault,Rape,SchoolRating,DesirabilityScore"
	rows := []string{
		"Austin,2020-01-31,300000,1,4,0,6,7.0",
		"Boston,2020-01-31,500000,2,10,3,9,8.5",
	}
	tbl, err := dataset.Load(datasettest.WriteCSV(t, header, rows), dataset.Options{})
	require.NoError(t, err)

	res, err := Filter(tbl, Bedrooms{Bedrooms: 3, SchoolRating: 7})
	require.NoError(t, err)
	require.NotNil(t, res.Unavailable)
	assert.Equal(t, dataset.ColBedrooms, res.Unavailable.Column)
	assert.Equal(t, "'Bedrooms' data not available.", res.Warning)
	assert.True(t, res.Empty())
	assert.Empty(t, res.Columns)

	var fe *FeatureUnavailableError
	assert.True(t, errors.As(error(res.Unavailable), &fe))
}

func TestFilterCrimeRate(t *testing.T) {
	res, err := Filter(loadSample(t), CrimeRate{MaxCrime: 5, SchoolRating: 3.5})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 4, 5}, res.Matches.Indices())
	assert.NotContains(t, res.Columns, dataset.ColHomePrice)
	for _, r := range res.Ranked.Records() {
		assert.LessOrEqual(t, r.CrimeRate, 5.0)
	}
}

func TestFilterHealthcare(t *testing.T) {
	tbl := loadSample(t)
	res, err := Filter(tbl, HealthcareAccess{MinHealthcare: 1, SchoolRating: 1})
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), res.Count())
	assert.Equal(t, dataset.ColHealthcareAccess, res.Columns[2])

	res, err = Filter(tbl, HealthcareAccess{MinHealthcare: 10, SchoolRating: 1})
	require.NoError(t, err)
	for _, r := range res.Ranked.Records() {
		assert.GreaterOrEqual(t, r.HealthcareAccess, 10.0)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	tbl := loadSample(t)
	q := CrimeRate{MaxCrime: 10, SchoolRating: 1}
	a, err := Filter(tbl, q)
	require.NoError(t, err)
	b, err := Filter(tbl, q)
	require.NoError(t, err)
	assert.Equal(t, a.Ranked.Indices(), b.Ranked.Indices())
	assert.Equal(t, a.Columns, b.Columns)
	// the table is untouched
	assert.InDelta(t, 8.5, tbl.Record(1).SchoolRating, 1e-9)
}

func TestFilterRejectsInvalidQuery(t *testing.T) {
	tbl := loadSample(t)
	bad := []Query{
		nil,
		Budget{MinPrice: -1, MaxPrice: 10, SchoolRating: 5},
		Budget{MinPrice: 1, MaxPrice: 10, SchoolRating: 0.5},
		Bedrooms{Bedrooms: 6, SchoolRating: 5},
		CrimeRate{MaxCrime: 11, SchoolRating: 5},
		HealthcareAccess{MinHealthcare: 0, SchoolRating: 5},
	}
	for _, q := range bad {
		_, err := Filter(tbl, q)
		var iq *InvalidQueryError
		assert.True(t, errors.As(err, &iq), "query %#v: got %v", q, err)
	}
}

func TestRankIsStable(t *testing.T) {
	rows := []string{
		"A,2020-01-31,100,3,1,1,1,5,7.0",
		"B,2020-01-31,100,3,1,1,2,6,9.0",
		"C,2020-01-31,100,3,1,1,3,7,7.0",
		"D,2020-01-31,100,3,1,1,4,8,9.0",
		"E,2020-01-31,100,3,1,1,5,9,7.0",
	}
	tbl, err := dataset.Load(datasettest.WriteCSV(t, datasettest.Header, rows), dataset.Options{})
	require.NoError(t, err)
	ranked := Rank(tbl.All())
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, regions(ranked))
}

func TestTopNCapsAtFive(t *testing.T) {
	rows := []string{
		"A,2020-01-31,100,3,1,1,1,5,1",
		"B,2020-01-31,100,3,1,1,2,6,2",
		"C,2020-01-31,100,3,1,1,3,7,3",
		"D,2020-01-31,100,3,1,1,4,8,4",
		"E,2020-01-31,100,3,1,1,5,9,5",
		"F,2020-01-31,100,3,1,1,6,10,6",
		"G,2020-01-31,100,3,1,1,7,11,7",
	}
	tbl, err := dataset.Load(datasettest.WriteCSV(t, datasettest.Header, rows), dataset.Options{})
	require.NoError(t, err)
	res, err := Filter(tbl, Budget{MinPrice: 0, MaxPrice: 1000, SchoolRating: 1})
	require.NoError(t, err)
	bars := res.Bars()
	require.Len(t, bars, TopN)
	assert.Equal(t, Bar{Region: "G", Score: 7}, bars[0])
	assert.Equal(t, "C", bars[4].Region)
}

func TestRankPutsMissingScoresLast(t *testing.T) {
	rows := []string{
		"A,2020-01-31,100,3,1,1,1,5,",
		"B,2020-01-31,100,3,1,1,2,6,4.0",
		"C,2020-01-31,100,3,1,1,3,7,",
		"D,2020-01-31,100,3,1,1,4,8,8.0",
	}
	tbl, err := dataset.Load(datasettest.WriteCSV(t, datasettest.Header, rows), dataset.Options{})
	require.NoError(t, err)
	ranked := Rank(tbl.All())
	assert.Equal(t, []string{"D", "B", "A", "C"}, regions(ranked))
	assert.True(t, math.IsNaN(ranked.At(3).DesirabilityScore))

	res, err := Filter(tbl, Budget{MinPrice: 0, MaxPrice: 1000, SchoolRating: 1})
	require.NoError(t, err)
	assert.Equal(t, []Bar{{Region: "D", Score: 8}, {Region: "B", Score: 4}}, res.Bars())
}
