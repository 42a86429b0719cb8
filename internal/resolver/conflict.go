package resolver

import "fmt"

// VersionConflict records that multiple versions of the same artifact
// were requested during resolution but only one was kept.
type VersionConflict struct {
	Group     string
	Artifact  string
	Requested string
	Resolved  string
	Reason    string
}

func (c VersionConflict) String() string {
	return fmt.Sprintf("%s:%s: %s -> %s (%s)", c.Group, c.Artifact, c.Requested, c.Resolved, c.Reason)
}

// ConflictReport accumulates every VersionConflict found during a resolve.
type ConflictReport struct {
	Conflicts []VersionConflict
}

// NewConflictReport returns an empty report.
func NewConflictReport() *ConflictReport { return &ConflictReport{} }

func (r *ConflictReport) Add(c VersionConflict) { r.Conflicts = append(r.Conflicts, c) }

func (r *ConflictReport) IsEmpty() bool { return len(r.Conflicts) == 0 }

func (r *ConflictReport) Len() int { return len(r.Conflicts) }

func (r *ConflictReport) String() string {
	if len(r.Conflicts) == 0 {
		return "No version conflicts."
	}
	out := fmt.Sprintf("Version conflicts (%d):\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		out += fmt.Sprintf("  %s:%s requested %s but resolved %s (%s)\n", c.Group, c.Artifact, c.Requested, c.Resolved, c.Reason)
	}
	return out
}
