package tracker

import "fmt"

// ValidationError is a fatal request precondition failure. The optimizer
// rejects the whole request before any generation runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// Validate checks the preconditions the optimizer depends on. The first
// violated precondition is returned; graph-level problems (cycles, orphaned
// dependencies) are deliberately not checked here — those are non-fatal and
// reported through graph diagnostics instead.
func (r *Request) Validate() error {
	if len(r.Bugs) == 0 {
		return &ValidationError{Field: "bugs", Reason: "empty bug set"}
	}

	ids := make(map[string]bool, len(r.Bugs))
	for i, b := range r.Bugs {
		if b.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("bugs[%d].id", i), Reason: "missing id"}
		}
		if ids[b.ID] {
			return &ValidationError{Field: fmt.Sprintf("bugs[%d].id", i), Reason: fmt.Sprintf("duplicate id %q", b.ID)}
		}
		ids[b.ID] = true
	}

	for i, e := range r.Engineers {
		if e.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("engineers[%d].id", i), Reason: "missing id"}
		}
		if e.Capacity <= 0 || e.Capacity > 1 {
			return &ValidationError{
				Field:  fmt.Sprintf("engineers[%d].capacity", i),
				Reason: fmt.Sprintf("capacity %g outside (0, 1]", e.Capacity),
			}
		}
	}

	names := make(map[string]bool, len(r.Milestones))
	for i, m := range r.Milestones {
		if !ids[m.BugID] {
			return &ValidationError{
				Field:  fmt.Sprintf("milestones[%d].bug", i),
				Reason: fmt.Sprintf("anchor bug %q not present in bug set", m.BugID),
			}
		}
		norm := NormalizeName(m.Name)
		if names[norm] {
			return &ValidationError{
				Field:  fmt.Sprintf("milestones[%d].name", i),
				Reason: fmt.Sprintf("duplicate milestone name %q", m.Name),
			}
		}
		names[norm] = true
		if !m.Freeze.IsZero() && !m.Freeze.Before(m.Deadline) {
			return &ValidationError{
				Field:  fmt.Sprintf("milestones[%d].freezeDate", i),
				Reason: "freeze date must be strictly before the deadline",
			}
		}
	}

	return nil
}
