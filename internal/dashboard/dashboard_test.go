package dashboard

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/dataset/datasettest"
	"github.com/KaramelBytes/nestor/internal/recommend"
	"github.com/KaramelBytes/nestor/internal/report"
)

func TestRunBudget(t *testing.T) {
	c := dataset.NewCache(datasettest.Sample(t), dataset.Options{})
	out, err := Run(c, recommend.Budget{MinPrice: 100000, MaxPrice: 800000, SchoolRating: 7})
	require.NoError(t, err)

	assert.Equal(t, recommend.ModeBudget, out.Mode)
	assert.Equal(t, "3 Matching Results", out.Headline)
	require.NotNil(t, out.TopPick)
	assert.Equal(t, "Denver", out.TopPick.Region)
	assert.Equal(t, "2020-02-29", out.TopPick.Date)
	assert.Len(t, out.Rows, 3)
	assert.Len(t, out.Bars, 3)
	assert.Equal(t, []string{"Boston", "Denver"}, out.Trends.Regions)
	require.NotNil(t, out.Download)
	assert.Equal(t, report.DownloadFilename, out.Download.Filename)
	assert.Equal(t, len(out.Download.Body), out.Download.Size)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "budget", decoded["mode"])
	assert.NotContains(t, decoded, "Result")
}

func TestRenderEmptyDegradesGracefully(t *testing.T) {
	tbl, err := dataset.Load(datasettest.Sample(t), dataset.Options{})
	require.NoError(t, err)
	out, err := Render(tbl, recommend.CrimeRate{MaxCrime: 1, SchoolRating: 10})
	require.NoError(t, err)
	// only Denver has CrimeRate 1 and SchoolRating 10
	assert.Equal(t, 1, out.Count)

	out, err = Render(tbl, recommend.Budget{MinPrice: 5, MaxPrice: 1, SchoolRating: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.Nil(t, out.TopPick)
	assert.Nil(t, out.Download)
	assert.NotNil(t, out.Rows)
	assert.Empty(t, out.Bars)
	assert.True(t, out.Trends.Empty())

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rows":[]`)
}

func TestRenderWithoutScores(t *testing.T) {
	rows := []string{
		"Austin,2020-01-31,300000,3,1,4,0,9,",
		"Boston,2020-01-31,900000,2,2,10,3,4,8.5",
	}
	tbl, err := dataset.Load(datasettest.WriteCSV(t, datasettest.Header, rows), dataset.Options{})
	require.NoError(t, err)
	out, err := Render(tbl, recommend.Budget{MinPrice: 100000, MaxPrice: 800000, SchoolRating: 7})
	require.NoError(t, err)

	require.Equal(t, 1, out.Count)
	require.NotNil(t, out.TopPick)
	assert.Equal(t, "Austin", out.TopPick.Region)
	assert.Nil(t, out.TopPick.Score)
	assert.Equal(t, "Top Pick: Austin — Score: n/a", out.TopPick.Line)
	assert.Empty(t, out.Bars)
	require.NotNil(t, out.Download)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	var decoded struct {
		TopPick map[string]any `json:"top_pick"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Nil(t, decoded.TopPick["score"])
}

func TestRenderUnavailableMode(t *testing.T) {
	header := "RegionName,Date,HomePrice,Murder,Assault,Rape,SchoolRating,DesirabilityScore"
	path := datasettest.WriteCSV(t, header, []string{
		"Austin,2020-01-31,300000,1,4,0,6,7.0",
		"Boston,2020-01-31,500000,2,10,3,9,8.5",
	})
	tbl, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)

	out, err := Render(tbl, recommend.Bedrooms{Bedrooms: 2, SchoolRating: 1})
	require.NoError(t, err)
	assert.Equal(t, "'Bedrooms' data not available.", out.Warning)
	assert.Empty(t, out.Columns)
	assert.Nil(t, out.TopPick)
}

func TestRunLoadErrorIsFatal(t *testing.T) {
	c := dataset.NewCache(filepath.Join(t.TempDir(), "missing.csv"), dataset.Options{})
	_, err := Run(c, recommend.Budget{MinPrice: 1, MaxPrice: 2, SchoolRating: 1})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
}

func TestRenderInvalidQuery(t *testing.T) {
	tbl, err := dataset.Load(datasettest.Sample(t), dataset.Options{})
	require.NoError(t, err)
	_, err = Render(tbl, recommend.Bedrooms{Bedrooms: 9, SchoolRating: 1})
	require.Error(t, err)
	assert.False(t, IsLoadError(err))
}
