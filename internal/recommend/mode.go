package recommend

import (
	"fmt"
	"strings"
)

// Mode names one of the mutually exclusive filter variants.
type Mode string

const (
	ModeBudget     Mode = "budget"
	ModeBedrooms   Mode = "bedrooms"
	ModeCrimeRate  Mode = "crime"
	ModeHealthcare Mode = "healthcare"
)

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{ModeBudget, ModeBedrooms, ModeCrimeRate, ModeHealthcare}
}

// Label is the human-facing name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeBudget:
		return "Budget"
	case ModeBedrooms:
		return "Bedrooms"
	case ModeCrimeRate:
		return "Crime Rate"
	case ModeHealthcare:
		return "Healthcare Access"
	}
	return string(m)
}

func (m Mode) String() string { return string(m) }

// ParseMode accepts either the key ("crime") or the label ("Crime Rate"),
// case-insensitively and ignoring spaces, '-' and '_'.
func ParseMode(s string) (Mode, error) {
	norm := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "budget", "price":
		return ModeBudget, nil
	case "bedrooms", "bedroom", "beds":
		return ModeBedrooms, nil
	case "crime", "crimerate":
		return ModeCrimeRate, nil
	case "healthcare", "healthcareaccess", "health":
		return ModeHealthcare, nil
	}
	return "", &InvalidQueryError{Field: "mode", Value: s, Reason: fmt.Sprintf("must be one of %s", modeList())}
}

func modeList() string {
	names := make([]string, 0, 4)
	for _, m := range Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
