package server

import (
	"encoding/csv"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/dataset/datasettest"
	"github.com/KaramelBytes/nestor/internal/recommend"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := datasettest.Sample(t)
	return New(dataset.NewCache(path, dataset.Options{}), recommend.DefaultParams()), path
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthAndAbout(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, s, "/api/about")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Desirability Score is a composite")
}

func TestRecommendationsDefaults(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/recommendations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Mode     string     `json:"mode"`
		Count    int        `json:"count"`
		Headline string     `json:"headline"`
		Rows     [][]string `json:"rows"`
		TopPick  struct {
			Region string `json:"region"`
		} `json:"top_pick"`
		Trends struct {
			Regions []string     `json:"regions"`
			Prices  [][]*float64 `json:"prices"`
		} `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "budget", body.Mode)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "Denver", body.TopPick.Region)
	assert.Equal(t, []string{"Boston", "Denver"}, body.Trends.Regions)
	assert.Nil(t, body.Trends.Prices[0][1])
}

func TestRecommendationsModes(t *testing.T) {
	s, _ := newTestServer(t)
	q := url.Values{"mode": {"Crime Rate"}, "max_crime": {"5"}, "school_rating": {"3.5"}}
	rec := get(t, s, "/api/recommendations?"+q.Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":5`)

	rec = get(t, s, "/api/recommendations?mode=bedrooms&bedrooms=2&school_rating=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestRecommendationsBadQuery(t *testing.T) {
	s, _ := newTestServer(t)
	for _, target := range []string{
		"/api/recommendations?mode=schools",
		"/api/recommendations?school_rating=11",
		"/api/recommendations?min_price=cheap",
		"/api/recommendations?mode=bedrooms&bedrooms=2.5",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"error"`, target)
	}
}

func TestLoadFailureIs500(t *testing.T) {
	s := New(dataset.NewCache(filepath.Join(t.TempDir(), "missing.csv"), dataset.Options{}), recommend.DefaultParams())
	rec := get(t, s, "/api/recommendations")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataset load failed")
}

func TestDownload(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/recommendations/download")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="nestor_recommendations.csv"`, rec.Header().Get("Content-Disposition"))
	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	rec = get(t, s, "/api/recommendations/download?min_price=9&max_price=1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCharts(t *testing.T) {
	s, _ := newTestServer(t)
	for _, target := range []string{"/api/charts/top.png", "/api/charts/trends.png"} {
		rec := get(t, s, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		_, err := png.Decode(rec.Body)
		assert.NoError(t, err, target)

		rec = get(t, s, target+"?min_price=9&max_price=1")
		assert.Equal(t, http.StatusNoContent, rec.Code, target)
	}
}

func TestDatasetAndReload(t *testing.T) {
	s, path := newTestServer(t)
	rec := get(t, s, "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		DatasetID string `json:"dataset_id"`
		Rows      int    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 6, profile.Rows)

	content := datasettest.Header + "\n" + datasettest.Rows[0] + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := httptest.NewRecorder()
	s.ServeHTTP(r, httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil))
	require.Equal(t, http.StatusOK, r.Code)
	var reloaded struct {
		DatasetID string `json:"dataset_id"`
		Rows      int    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &reloaded))
	assert.Equal(t, 1, reloaded.Rows)
	assert.NotEqual(t, profile.DatasetID, reloaded.DatasetID)
}

func TestIndexMarkdown(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/?mode=healthcare&min_healthcare=1&school_rating=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "### 6 Matching Results")
	assert.Contains(t, rec.Body.String(), "HealthcareAccess")
}

func TestParseQueryDefaults(t *testing.T) {
	q, err := ParseQuery(url.Values{}, recommend.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, recommend.Budget{MinPrice: 100000, MaxPrice: 800000, SchoolRating: 7}, q)
}
