package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/nestor/internal/analysis"
	"github.com/KaramelBytes/nestor/internal/dashboard"
	"github.com/KaramelBytes/nestor/internal/recommend"
	"github.com/KaramelBytes/nestor/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"title":    report.Title,
		"subtitle": report.Subtitle,
		"about":    report.AboutDesirability,
	})
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	type mode struct {
		Key   recommend.Mode `json:"key"`
		Label string         `json:"label"`
	}
	out := make([]mode, 0, 4)
	for _, m := range recommend.Modes() {
		out = append(out, mode{Key: m, Label: m.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"modes": out, "defaults": s.defaults})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	t, err := s.cache.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis.Profile(t))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	t, err := s.cache.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dataset_id": t.ID, "rows": t.Len(), "warnings": t.Warnings})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(report.Markdown(out.Result)))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r)
	if !ok {
		return
	}
	if out.Download == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", out.Download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Download.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(out.Download.Size))
	_, _ = w.Write(out.Download.Body)
}

func (s *Server) handleTopChart(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r)
	if !ok {
		return
	}
	writePNG(w, func(buf *bytes.Buffer) error { return report.WriteBarChart(buf, out.Bars) })
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r)
	if !ok {
		return
	}
	writePNG(w, func(buf *bytes.Buffer) error { return report.WriteTrendChart(buf, out.Trends) })
}

// run parses the query, loads the table and renders. On failure the error
// response has already been written.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*dashboard.Outputs, bool) {
	q, err := ParseQuery(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	out, err := dashboard.Run(s.cache, q)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return out, true
}

// ParseQuery builds a query from URL parameters, falling back to defaults
// for any parameter that is absent.
func ParseQuery(v url.Values, defaults recommend.Params) (recommend.Query, error) {
	p := defaults
	if m := v.Get("mode"); m != "" {
		mode, err := recommend.ParseMode(m)
		if err != nil {
			return nil, err
		}
		p.Mode = mode
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"min_price", &p.MinPrice},
		{"max_price", &p.MaxPrice},
		{"school_rating", &p.SchoolRating},
		{"max_crime", &p.MaxCrime},
		{"min_healthcare", &p.MinHealthcare},
	}
	for _, f := range floats {
		raw := v.Get(f.key)
		if raw == "" {
			continue
		}
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &recommend.InvalidQueryError{Field: f.key, Value: raw, Reason: "not a number"}
		}
		*f.dst = x
	}
	if raw := v.Get("bedrooms"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &recommend.InvalidQueryError{Field: "bedrooms", Value: raw, Reason: "not a whole number"}
		}
		p.Bedrooms = n
	}
	return p.Query()
}

func writePNG(w http.ResponseWriter, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, report.ErrNothingToExport) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var iq *recommend.InvalidQueryError
	if errors.As(err, &iq) {
		status = http.StatusBadRequest
	} else if dashboard.IsLoadError(err) {
		log.Error().Err(err).Msg("dataset load failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
