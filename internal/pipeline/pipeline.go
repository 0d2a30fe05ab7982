// Package pipeline turns the track table into the ordered, aggregated view the
// chart draws. Every run starts from scratch: filter, aggregate, order.
package pipeline

import (
	"github.com/ting0602/trackchart/internal/track"
)

// Result is the output of one pipeline run.
type Result struct {
	// Groups in x-axis order.
	Groups []*Group
	// Records that survived filtering and truncation.
	Records []*track.Record
	// Overflow is set when more than MaxVisible records passed the filters.
	Overflow bool
	// MaxCount is the largest group size, MaxMean the largest displayed mean.
	MaxCount int
	MaxMean  float64
}

// Empty reports whether nothing passed the filters.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Group returns the group with the given key.
func (r Result) Group(key string) (*Group, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return nil, false
}

// Run executes the full pipeline for s over records.
func Run(records []*track.Record, s State) Result {
	filtered, overflow := Apply(records, s.Filter, s.Descending())
	groups := Order(Aggregate(filtered, s.Grouping))

	res := Result{
		Groups:   groups,
		Records:  filtered,
		Overflow: overflow,
	}
	for _, g := range groups {
		res.MaxCount = max(res.MaxCount, g.Count)
		res.MaxMean = max(res.MaxMean, g.Rounded)
	}
	return res
}
