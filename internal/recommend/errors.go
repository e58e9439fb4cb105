package recommend

import "fmt"

// FeatureUnavailableError reports a mode whose column is absent from the
// dataset. It is recovered locally: the query yields an empty result.
type FeatureUnavailableError struct {
	Mode   Mode
	Column string
}

func (e *FeatureUnavailableError) Error() string {
	return fmt.Sprintf("%s mode unavailable: dataset has no %s column", e.Mode.Label(), e.Column)
}

// Warning is the short message shown in place of results.
func (e *FeatureUnavailableError) Warning() string {
	return fmt.Sprintf("'%s' data not available.", e.Column)
}

// InvalidQueryError indicates an unknown mode or a threshold outside its range.
type InvalidQueryError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidQueryError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
