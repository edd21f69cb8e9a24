// Package model defines core data structures for ProcFlow.
package model

// Reserved boundary labels. The discovery pipeline inserts synthetic
// start/end markers under these names, so real activities must never
// use them. Ingestion rejects colliding labels up front.
const (
	StartLabel = "start"
	EndLabel   = "end"
)

// Reserved reports whether label collides with a synthetic boundary marker.
func Reserved(label string) bool {
	return label == StartLabel || label == EndLabel
}

// Event represents a single recorded execution event: one activity
// occurrence within one case. Timestamps are nanoseconds since the
// Unix epoch so events can be totally ordered without re-parsing.
type Event struct {
	// CaseID identifies the process instance (trace) the event belongs to.
	CaseID string

	// Activity is the activity label.
	Activity string

	// Timestamp in nanoseconds since Unix epoch.
	Timestamp int64

	// Resource is the actor performing the activity, when recorded.
	Resource string

	// Attributes holds additional key-value pairs from the source log.
	Attributes []Attribute
}

// Attribute is a key-value pair of event metadata.
type Attribute struct {
	Key   string
	Value string
}

// Reset clears the event for reuse from a pool.
func (e *Event) Reset() {
	e.CaseID = ""
	e.Activity = ""
	e.Timestamp = 0
	e.Resource = ""
	e.Attributes = e.Attributes[:0]
}
