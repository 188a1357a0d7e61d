// Package report implements JSON serialization of check results and the
// comparison of a run against a saved baseline.
package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nathoo/questcheck/engine/sanity"
)

// FormatVersion is written into every report and checked on load.
const FormatVersion = "1"

// Report is the JSON-serializable result format.
type Report struct {
	Version string          `json:"version"`
	World   string          `json:"world"`
	Summary string          `json:"summary"`
	Results []sanity.Result `json:"results"`
}

// New builds a report for the named world.
func New(world string, results []sanity.Result) *Report {
	if results == nil {
		results = []sanity.Result{}
	}
	return &Report{
		Version: FormatVersion,
		World:   world,
		Summary: sanity.Summary(results),
		Results: results,
	}
}

// Save serializes the results of a run to indented JSON.
func Save(world string, results []sanity.Result) ([]byte, error) {
	return json.MarshalIndent(New(world, results), "", "  ")
}

// Load deserializes a report written by Save.
func Load(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	if r.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported report version %q", r.Version)
	}
	// Ensure results are never nil after load.
	if r.Results == nil {
		r.Results = []sanity.Result{}
	}
	return &r, nil
}

// Delta is the difference between a baseline and a new run.
type Delta struct {
	Added   []sanity.Result `json:"added"`
	Removed []sanity.Result `json:"removed"`
}

// Empty reports whether the two runs had identical results.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares current against baseline. Results are matched on location
// and message; hints are ignored. Duplicates are matched by count.
func Diff(baseline, current []sanity.Result) Delta {
	type key struct{ location, message string }
	count := map[key]int{}
	for _, r := range baseline {
		count[key{r.Location, r.Message}]++
	}
	var d Delta
	for _, r := range current {
		k := key{r.Location, r.Message}
		if count[k] > 0 {
			count[k]--
			continue
		}
		d.Added = append(d.Added, r)
	}
	for i := len(baseline) - 1; i >= 0; i-- {
		r := baseline[i]
		k := key{r.Location, r.Message}
		if count[k] > 0 {
			count[k]--
			d.Removed = append(d.Removed, r)
		}
	}
	sort.SliceStable(d.Removed, func(i, j int) bool { return less(d.Removed[i], d.Removed[j]) })
	return d
}

func less(a, b sanity.Result) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Location != b.Location {
		return a.Location < b.Location
	}
	return a.Message < b.Message
}
