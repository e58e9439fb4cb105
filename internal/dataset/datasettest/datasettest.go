// Package datasettest provides small housing fixtures for tests.
package datasettest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Header is the column order used by Rows.
const Header = "RegionName,Date,HomePrice,Bedrooms,Murder,Assault,Rape,SchoolRating,DesirabilityScore"

// Rows is a six-record dataset spanning two months and four regions.
// CrimeRateRaw is 5, 15, 30, 5, 15, 5 and SchoolRating spans 4..10, so the
// normalized values are easy to compute by hand. Denver's Murder and Rape
// cells are blank.
var Rows = []string{
	"Austin,2020-01-31,300000,3,1,4,0,6,7.0",
	"Boston,2020-01-31,500000,2,2,10,3,9,8.5",
	"Chicago,2020-01-31,250000,4,5,20,5,4,6.0",
	"Austin,2020-02-29,310000,3,1,4,0,6,7.2",
	"Boston,2020-02-29,520000,2,2,10,3,9,8.6",
	"Denver,2020-02-29,400000,3,,5,,10,9.0",
}

// WriteCSV writes header and rows to a file in a per-test temp dir and
// returns its path.
func WriteCSV(t testing.TB, header string, rows []string) string {
	t.Helper()
	return WriteFile(t, "housing.csv", header+"\n"+strings.Join(rows, "\n")+"\n")
}

// WriteFile writes content under name in a per-test temp dir.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

// Sample writes the default fixture and returns its path.
func Sample(t testing.TB) string {
	t.Helper()
	return WriteCSV(t, Header, Rows)
}
