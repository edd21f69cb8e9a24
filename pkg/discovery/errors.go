package discovery

import (
	"fmt"
	"strings"
)

// ReservedLabelError reports a real activity colliding with a synthetic
// boundary marker. The run aborts before any stage executes.
type ReservedLabelError struct {
	CaseID   string
	Activity string
}

func (e *ReservedLabelError) Error() string {
	return fmt.Sprintf("discovery: activity %q in case %q collides with a reserved boundary label", e.Activity, e.CaseID)
}

// ValidationError reports a trace carrying a non-positive count. Counts
// are never coerced; the run aborts with the offending trace named.
type ValidationError struct {
	Trace []string
	Count int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("discovery: trace [%s] has non-positive count %d", strings.Join(e.Trace, " "), e.Count)
}

// TooManyActivitiesError reports that the distinct-activity count exceeds
// the configured ceiling for exponential enumeration.
type TooManyActivitiesError struct {
	Count int
	Limit int
}

func (e *TooManyActivitiesError) Error() string {
	return fmt.Sprintf("discovery: %d distinct activities exceeds the enumeration ceiling of %d", e.Count, e.Limit)
}
