package analysis

import "fmt"

// InsufficientDataError reports a magnitude sample too small or too
// degenerate to support the calibration statistics.
type InsufficientDataError struct {
	N        int
	Distinct int
	Msg      string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("analysis: insufficient data (%d samples, %d distinct): %s",
		e.N, e.Distinct, e.Msg)
}
