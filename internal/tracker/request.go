package tracker

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// ParseRequest decodes a request payload. Comments and trailing commas are
// tolerated (hand-written request files tend to carry both), and the id
// field round-trips as raw JSON whatever its shape.
func ParseRequest(data []byte) (*Request, error) {
	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("request is not valid JSON")
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	if id := gjson.GetBytes(data, "id"); id.Exists() {
		req.ID = json.RawMessage(id.Raw)
	}

	req.MergeGraph()
	return &req, nil
}

// MergeGraph folds the request's explicit graph relation into each bug's
// DependsOn list, deduplicating edges declared in both places.
func (r *Request) MergeGraph() {
	if len(r.Graph) == 0 {
		return
	}
	byID := make(map[string]*Bug, len(r.Bugs))
	for i := range r.Bugs {
		byID[r.Bugs[i].ID] = &r.Bugs[i]
	}
	for id, deps := range r.Graph {
		bug, ok := byID[id]
		if !ok {
			continue // orphaned source; graph build reports it from DependsOn only
		}
		seen := make(map[string]bool, len(bug.DependsOn))
		for _, d := range bug.DependsOn {
			seen[d] = true
		}
		for _, d := range deps {
			if !seen[d] {
				bug.DependsOn = append(bug.DependsOn, d)
				seen[d] = true
			}
		}
	}
}

// NormalizeName canonicalizes a milestone name or label for matching:
// lowercase with all whitespace removed.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// NameMatches reports whether a free-form label refers to the given
// milestone name, ignoring case and whitespace.
func NameMatches(name, label string) bool {
	return NormalizeName(name) == NormalizeName(label)
}

// SynthesizeExternals returns the engineer pool extended with one external
// engineer per assignee that appears on a bug but not in the declared pool.
// Synthesized engineers are full-time with no unavailability. The caller's
// declared pool is never modified.
func SynthesizeExternals(bugs []Bug, engineers []Engineer) []Engineer {
	known := make(map[string]bool, len(engineers))
	for _, e := range engineers {
		known[e.ID] = true
	}

	var missing []string
	seen := make(map[string]bool)
	for _, b := range bugs {
		if b.Assignee == "" || known[b.Assignee] || seen[b.Assignee] {
			continue
		}
		seen[b.Assignee] = true
		missing = append(missing, b.Assignee)
	}
	sort.Strings(missing)

	out := make([]Engineer, 0, len(engineers)+len(missing))
	out = append(out, engineers...)
	for _, id := range missing {
		out = append(out, Engineer{
			ID:       id,
			Name:     id,
			Capacity: 1.0,
			External: true,
		})
	}
	return out
}
