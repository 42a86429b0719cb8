// Package progress provides real-time status-line reporting for the
// resolve/fetch/compile/package pipeline.
package progress

import "time"

// Reporter emits progress events. Implementations must be safe for
// concurrent use and must not block, so a slow writer never stalls the
// pipeline stage that reports through it.
type Reporter interface {
	Report(event Event)
}

// Event is a single progress update at a point in time.
type Event struct {
	// Timestamp is when the event occurred; reporters populate it if
	// the caller leaves it zero.
	Timestamp time.Time
	// Stage is the pipeline phase this event relates to.
	Stage Stage
	// Message is human-readable context: an artifact coordinate, a
	// compilation unit name, a warning text.
	Message string
	// Current and Total describe bounded progress within a stage
	// (e.g. artifacts fetched so far out of the resolved set).
	Current int
	Total   int
}

func (e *Event) normalize() {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}

// Stage is a phase of the build pipeline.
type Stage string

const (
	StageResolving  Stage = "Resolving"
	StageFetched    Stage = "Fetched"
	StageCompiling  Stage = "Compiling"
	StageFinished   Stage = "Finished"
	StageWarning    Stage = "Warning"
	StagePackaging  Stage = "Packaging"
)
