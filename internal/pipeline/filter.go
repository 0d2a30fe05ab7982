package pipeline

import (
	"sort"

	"github.com/ting0602/trackchart/internal/track"
)

// Apply runs the filter engine over records in their dataset order:
//
//  1. positional row window [RowLower, RowUpper) when RowsOn
//  2. inclusive popularity range when PopularityOn
//  3. stable sort by popularity, highest first
//  4. cap at MaxVisible, keeping the top when descending and the bottom otherwise
//
// The input slice is never modified.
func Apply(records []*track.Record, f Filter, descending bool) (out []*track.Record, overflow bool) {
	out = records
	if f.RowsOn {
		lo := min(max(f.RowLower, 0), len(out))
		hi := min(max(f.RowUpper, lo), len(out))
		out = out[lo:hi]
	}

	kept := make([]*track.Record, 0, len(out))
	for _, r := range out {
		if f.PopularityOn {
			if r.Popularity < float64(f.PopularityLower) || r.Popularity > float64(f.PopularityUpper) {
				continue
			}
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Popularity > kept[j].Popularity
	})

	if len(kept) > MaxVisible {
		if descending {
			kept = kept[:MaxVisible]
		} else {
			kept = kept[len(kept)-MaxVisible:]
		}
		return kept, true
	}
	return kept, false
}
