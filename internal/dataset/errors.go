package dataset

import "fmt"

// LoadError reports a source that is missing, unreadable, or lacks the
// columns the enrichment needs. It is fatal for the session.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "dataset load failed"
	}
	msg := "dataset load failed"
	if e.Path != "" {
		msg = fmt.Sprintf("dataset load failed for %s", e.Path)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(path, reason string, err error) error {
	return &LoadError{Path: path, Reason: reason, Err: err}
}
