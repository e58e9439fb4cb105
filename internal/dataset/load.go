package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// ScaleLow and ScaleHigh bound every normalized metric.
	ScaleLow  = 1.0
	ScaleHigh = 10.0

	// HealthcareSeed fixes the generator used when HealthcareAccess is absent,
	// so repeated loads of the same file produce identical values.
	HealthcareSeed uint64 = 42
)

// Options controls how a source file is read.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file extension (',' or '\t').
	Delimiter rune
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
}

// Load reads the source at path and returns the enriched table: a
// synthesized HealthcareAccess column when the source has none, CrimeRateRaw
// and CrimeRate derived from the crime counts, and SchoolRating replaced by
// its normalized form. Both scalers are fitted once over the whole file.
func Load(path string, opt Options) (*Table, error) {
	start := time.Now()
	raw, err := readSource(path, opt)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	for _, name := range raw.Names() {
		present[name] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, loadErr(path, "missing required columns: "+strings.Join(missing, ", "), nil)
	}

	n := raw.Nrow()
	if n == 0 {
		return nil, loadErr(path, "no data rows", nil)
	}
	t := &Table{
		ID:       uuid.NewString(),
		Source:   path,
		LoadedAt: time.Now(),
		columns:  present,
	}

	regions := raw.Col(ColRegionName).Records()
	dates := raw.Col(ColDate).Records()
	recs := make([]Record, n)
	for i := range recs {
		d, ok := parseDate(dates[i])
		if !ok {
			return nil, loadErr(path, fmt.Sprintf("row %d: unparseable %s %q", i+1, ColDate, dates[i]), nil)
		}
		recs[i] = Record{Row: i, RegionName: strings.TrimSpace(regions[i]), Date: d}
	}

	price := numericColumn(raw, ColHomePrice)
	murder := numericColumn(raw, ColMurder)
	assault := numericColumn(raw, ColAssault)
	rape := numericColumn(raw, ColRape)
	school := numericColumn(raw, ColSchoolRating)
	score := numericColumn(raw, ColDesirabilityScore)

	var bedrooms []float64
	if present[ColBedrooms] {
		bedrooms = numericColumn(raw, ColBedrooms)
	}

	var health []float64
	if present[ColHealthcareAccess] {
		health = numericColumn(raw, ColHealthcareAccess)
	} else {
		health = synthesizeHealthcare(n)
		t.HealthcareSynthesized = true
		t.columns[ColHealthcareAccess] = true
		t.Warnings = append(t.Warnings, "HealthcareAccess not in source; simulated with a fixed seed")
	}

	crimeRaw := make([]float64, n)
	for i := range crimeRaw {
		crimeRaw[i] = sumPresent(murder[i], assault[i], rape[i])
	}

	t.CrimeScale = NewMinMaxScaler(ScaleLow, ScaleHigh)
	crime, err := t.CrimeScale.FitTransform(crimeRaw)
	if err != nil {
		return nil, loadErr(path, ColCrimeRateRaw, err)
	}
	t.SchoolScale = NewMinMaxScaler(ScaleLow, ScaleHigh)
	schoolNorm, err := t.SchoolScale.FitTransform(school)
	if err != nil {
		return nil, loadErr(path, ColSchoolRating+" has no numeric values", err)
	}
	if t.CrimeScale.Degenerate() {
		t.Warnings = append(t.Warnings, fmt.Sprintf("%s is constant; %s set to %.1f for every row", ColCrimeRateRaw, ColCrimeRate, t.CrimeScale.Midpoint()))
	}
	if t.SchoolScale.Degenerate() {
		t.Warnings = append(t.Warnings, fmt.Sprintf("%s is constant; normalized to %.1f for every row", ColSchoolRating, t.SchoolScale.Midpoint()))
	}
	t.columns[ColCrimeRateRaw] = true
	t.columns[ColCrimeRate] = true

	for i := range recs {
		r := &recs[i]
		r.HomePrice = price[i]
		r.Murder, r.Assault, r.Rape = murder[i], assault[i], rape[i]
		r.SchoolRating = schoolNorm[i]
		r.HealthcareAccess = health[i]
		r.DesirabilityScore = score[i]
		r.CrimeRateRaw = crimeRaw[i]
		r.CrimeRate = crime[i]
		if bedrooms != nil {
			r.Bedrooms = wholeCount(bedrooms[i])
		}
	}
	t.records = recs

	frame := raw
	if t.HealthcareSynthesized {
		frame = frame.Mutate(textSeries(ColHealthcareAccess, health))
	}
	frame = frame.Mutate(textSeries(ColCrimeRateRaw, crimeRaw)).
		Mutate(textSeries(ColCrimeRate, crime)).
		Mutate(textSeries(ColSchoolRating, schoolNorm))
	if frame.Err != nil {
		return nil, loadErr(path, "build enriched frame", frame.Err)
	}
	t.frame = frame

	log.Debug().
		Str("path", path).
		Str("dataset_id", t.ID).
		Int("rows", n).
		Bool("healthcare_synthesized", t.HealthcareSynthesized).
		Dur("elapsed", time.Since(start)).
		Msg("dataset loaded")
	return t, nil
}

// readSource parses the file into an all-text dataframe so that source
// values are written back verbatim on export.
func readSource(path string, opt Options) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, loadErr(path, "source not found", err)
		}
		return dataframe.DataFrame{}, loadErr(path, "stat source", err)
	}

	var df dataframe.DataFrame
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err := readXLSX(path, opt.Sheet)
		if err != nil {
			return dataframe.DataFrame{}, loadErr(path, "read xlsx", err)
		}
		df = dataframe.LoadRecords(rows, dataframe.DetectTypes(false), dataframe.HasHeader(true))
	} else {
		f, err := os.Open(path)
		if err != nil {
			return dataframe.DataFrame{}, loadErr(path, "open source", err)
		}
		defer f.Close()
		delim := opt.Delimiter
		if delim == 0 {
			delim = sniffDelimiter(path)
		}
		df = dataframe.ReadCSV(f,
			dataframe.WithDelimiter(delim),
			dataframe.DetectTypes(false),
			dataframe.HasHeader(true),
		)
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, loadErr(path, "parse source", df.Err)
	}

	names := df.Names()
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	if err := df.SetNames(names...); err != nil {
		return dataframe.DataFrame{}, loadErr(path, "header", err)
	}
	return df, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	// GetRows drops trailing empty cells; pad to the header width.
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > width {
			rows[i] = row[:width]
		}
	}
	return rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func synthesizeHealthcare(n int) []float64 {
	u := distuv.Uniform{Min: ScaleLow, Max: ScaleHigh, Src: rand.NewPCG(HealthcareSeed, HealthcareSeed)}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round(u.Rand()*10) / 10
	}
	return out
}

// sumPresent adds the non-missing values; an all-missing row sums to zero.
func sumPresent(xs ...float64) float64 {
	var s float64
	for _, x := range xs {
		if !isMissing(x) {
			s += x
		}
	}
	return s
}

func wholeCount(f float64) int {
	if isMissing(f) || f <= 0 || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}

func numericColumn(df dataframe.DataFrame, col string) []float64 {
	raw := df.Col(col).Records()
	out := make([]float64, len(raw))
	for i, s := range raw {
		out[i], _ = parseNumber(s)
	}
	return out
}

func textSeries(name string, xs []float64) series.Series {
	vals := make([]string, len(xs))
	for i, x := range xs {
		if !isMissing(x) {
			vals[i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
	}
	return series.New(vals, series.String, name)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "2006-01-02T15:04:05",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "01/02/2006", "1/2/2006",
		"1/2/2006 15:04", "1/2/2006 15:04:05", "2006-01",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber accepts plain, percent, currency-prefixed and locale-grouped
// numbers ("1.234,5", "350,000"). Anything else is missing (NaN).
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN(), false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	dec := "."
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			dec = ","
		}
	case cpos >= 0 && !groupedBy(raw, ","):
		dec = ","
	}
	for _, sep := range []string{",", ".", " "} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, sep, "")
		}
	}
	if dec != "." {
		raw = strings.ReplaceAll(raw, dec, ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

// groupedBy reports whether every sep-separated group after the first has
// exactly three digits, i.e. sep is a thousands separator.
func groupedBy(s, sep string) bool {
	parts := strings.Split(s, sep)
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
