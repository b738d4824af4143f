package tracker

import (
	"encoding/json"
	"time"
)

// Bug is a single schedulable work item pulled from the bug tracker.
type Bug struct {
	ID        string   `json:"id"`
	Summary   string   `json:"summary"`
	Status    string   `json:"status"` // "open" or "resolved"
	Size      float64  `json:"size,omitempty"` // estimated effort in engineer-days; 0 = unestimated
	DependsOn []string `json:"dependsOn,omitempty"`
	Assignee  string   `json:"assignee,omitempty"` // fixed engineer assignment, if any
	Labels    []string `json:"labels,omitempty"`
	External  bool     `json:"external,omitempty"`
}

// DefaultSize is the placeholder effort used for unestimated bugs.
const DefaultSize = 1.0

// EffectiveSize returns the bug's estimate, or DefaultSize when unestimated.
func (b *Bug) EffectiveSize() float64 {
	if b.Size > 0 {
		return b.Size
	}
	return DefaultSize
}

// Resolved reports whether the bug is already done. Resolved bugs are
// excluded from scheduling but stay in the graph for ordering integrity.
func (b *Bug) Resolved() bool {
	return b.Status == "resolved"
}

// Interval is a half-open [Start, End) span of wall-clock time.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Engineer is a member of the resource pool.
type Engineer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Capacity    float64    `json:"capacity"` // daily fraction in (0, 1]
	Unavailable []Interval `json:"unavailable,omitempty"`
	// External engineers were discovered from bug assignments rather than
	// declared in the pool: full-time capacity, no unavailability.
	External bool `json:"external,omitempty"`
}

// Milestone anchors a hard deadline to the bug whose completion defines it.
type Milestone struct {
	Name     string    `json:"name"`
	BugID    string    `json:"bug"`
	Deadline time.Time `json:"deadline"`
	Freeze   time.Time `json:"freezeDate,omitempty"` // strictly before Deadline
}

// Request is the full optimization request handed to the engine.
type Request struct {
	Bugs       []Bug               `json:"bugs"`
	Engineers  []Engineer          `json:"engineers"`
	Graph      map[string][]string `json:"graph,omitempty"` // bug id -> dependency ids
	Milestones []Milestone         `json:"milestones"`

	PopulationSize int `json:"populationSize,omitempty"`
	Generations    int `json:"generations,omitempty"`

	// ID is echoed verbatim in the response; callers may send any JSON value.
	ID json.RawMessage `json:"id,omitempty"`
}

// Response is the completion message for one optimization request.
type Response struct {
	Type                  string          `json:"type"` // always "complete"
	DeadlinesMet          int             `json:"deadlinesMet"`
	TotalLatenessMs       int64           `json:"totalLatenessMs"`
	MakespanMs            int64           `json:"makespanMs"`
	BestFoundAtGeneration int             `json:"bestFoundAtGeneration"`
	ID                    json.RawMessage `json:"id,omitempty"`
}

// ProgressMessage is the optional incremental update emitted while a run
// evolves, at most once per generation. Purely observational.
type ProgressMessage struct {
	Type            string `json:"type"` // always "progress"
	RunID           int    `json:"runId"`
	Generation      int    `json:"generation"`
	DeadlinesMet    int    `json:"deadlinesMet"`
	TotalLatenessMs int64  `json:"totalLatenessMs"`
	MakespanMs      int64  `json:"makespanMs"`
}
