// Package dashboard runs the load → filter → render pipeline for one
// interaction and returns everything a front end needs to draw.
package dashboard

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/recommend"
	"github.com/KaramelBytes/nestor/internal/report"
)

// Pick is the highlighted best record. Score is nil when the source row has
// no DesirabilityScore.
type Pick struct {
	Region string   `json:"region"`
	Date   string   `json:"date"`
	Score  *float64 `json:"score"`
	Line   string   `json:"line"`
}

// Download is the CSV attachment for the matching records.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
	Size        int    `json:"size"`
}

// Outputs is the full set of render inputs for one query. Every field is
// usable when nothing matched: slices are empty and the optional parts nil.
type Outputs struct {
	DatasetID string          `json:"dataset_id"`
	Mode      recommend.Mode  `json:"mode"`
	ModeLabel string          `json:"mode_label"`
	Query     recommend.Query `json:"query"`
	Title     string          `json:"title"`
	Headline  string          `json:"headline"`
	Count     int             `json:"count"`
	Warning   string          `json:"warning,omitempty"`
	TopPick   *Pick           `json:"top_pick,omitempty"`
	Columns   []string        `json:"columns"`

	// Rows are the ranked display cells; Records carry the raw values keyed
	// by column, with missing numbers as null.
	Rows     [][]string            `json:"rows"`
	Records  []map[string]any      `json:"records"`
	Bars     []recommend.Bar       `json:"bars"`
	Trends   recommend.TrendMatrix `json:"trends"`
	Download *Download             `json:"download,omitempty"`
	Result   *recommend.Result     `json:"-"`
}

// Render filters t with q and assembles the outputs. It holds no state and
// never modifies t.
func Render(t *dataset.Table, q recommend.Query) (*Outputs, error) {
	res, err := recommend.Filter(t, q)
	if err != nil {
		return nil, err
	}
	out := &Outputs{
		DatasetID: t.ID,
		Mode:      q.Mode(),
		ModeLabel: q.Mode().Label(),
		Query:     q,
		Title:     report.Title,
		Headline:  report.Headline(res),
		Count:     res.Count(),
		Warning:   res.Warning,
		Columns:   append([]string{}, res.Columns...),
		Rows:      report.Rows(res),
		Records:   records(res),
		Bars:      res.Bars(),
		Trends:    res.Trends(),
		Result:    res,
	}
	if res.Unavailable != nil {
		log.Warn().Str("mode", string(q.Mode())).Str("column", res.Unavailable.Column).Msg("filter mode unavailable")
	}
	if top, ok := res.Top(); ok {
		line, _ := report.TopPick(res)
		out.TopPick = &Pick{
			Region: top.RegionName,
			Date:   top.Date.Format(dataset.DateLayout),
			Line:   line,
		}
		if s := top.DesirabilityScore; !math.IsNaN(s) {
			out.TopPick.Score = &s
		}
		body, err := report.CSV(res)
		if err != nil {
			return nil, fmt.Errorf("build download: %w", err)
		}
		out.Download = &Download{
			Filename:    report.DownloadFilename,
			ContentType: "text/csv",
			Body:        body,
			Size:        len(body),
		}
	}
	return out, nil
}

// Run loads the table through c and renders q against it. A load failure is
// returned unchanged so callers can detect *dataset.LoadError.
func Run(c *dataset.Cache, q recommend.Query) (*Outputs, error) {
	t, err := c.Get()
	if err != nil {
		return nil, err
	}
	return Render(t, q)
}

// IsLoadError reports whether err is fatal for the session.
func IsLoadError(err error) bool {
	var le *dataset.LoadError
	return errors.As(err, &le)
}

func records(res *recommend.Result) []map[string]any {
	out := make([]map[string]any, 0, res.Count())
	for _, rec := range res.Ranked.Records() {
		m := make(map[string]any, len(res.Columns))
		for _, col := range res.Columns {
			v := rec.Field(col)
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				v = nil
			}
			m[col] = v
		}
		out = append(out, m)
	}
	return out
}
