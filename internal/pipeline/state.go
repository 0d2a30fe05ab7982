package pipeline

import (
	"fmt"
	"strings"
)

// Bounds of the filter controls.
const (
	PopularityMin = 0
	PopularityMax = 100
	RowMin        = 0
	RowMax        = 89740

	// MaxVisible caps the number of records that reach the aggregator.
	MaxVisible = 500
)

// GroupKey selects the record field groups are keyed by.
type GroupKey string

const (
	GroupByTrack  GroupKey = "track_name"
	GroupByAlbum  GroupKey = "album_name"
	GroupByArtist GroupKey = "artists"
)

// GroupKeys lists the grouping keys in selector order.
var GroupKeys = []GroupKey{GroupByTrack, GroupByAlbum, GroupByArtist}

// ParseGroupKey accepts a column name or one of the short forms track/album/artist.
func ParseGroupKey(s string) (GroupKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "track_name", "track", "name":
		return GroupByTrack, nil
	case "album_name", "album":
		return GroupByAlbum, nil
	case "artists", "artist":
		return GroupByArtist, nil
	}
	return "", fmt.Errorf("unknown grouping %q (use track_name, album_name or artists)", s)
}

// Label is the human readable name of the key.
func (k GroupKey) Label() string {
	switch k {
	case GroupByAlbum:
		return "Album"
	case GroupByArtist:
		return "Artist"
	default:
		return "Track"
	}
}

// Next returns the key following k in selector order.
func (k GroupKey) Next() GroupKey {
	for i, g := range GroupKeys {
		if g == k {
			return GroupKeys[(i+1)%len(GroupKeys)]
		}
	}
	return GroupByTrack
}

// Direction is the sorting toggle.
type Direction string

const (
	Descending Direction = "descending"
	Ascending  Direction = "ascending"
)

// ParseDirection accepts descending/desc and ascending/asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descending", "desc":
		return Descending, nil
	case "ascending", "asc":
		return Ascending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q (use descending or ascending)", s)
}

// Filter is the filter configuration. Bounds are always in range and ordered; build
// them through ClampPopularity and ClampRows.
type Filter struct {
	PopularityOn    bool
	PopularityLower int
	PopularityUpper int

	RowsOn   bool
	RowLower int
	RowUpper int
}

// State is everything the pipeline and the chart read. It is a value: every change
// produces a new State.
type State struct {
	Filter    Filter
	Grouping  GroupKey
	Direction Direction
	BarWidth  int
}

// DefaultState returns the initial configuration.
func DefaultState() State {
	return State{
		Filter: Filter{
			PopularityOn:    true,
			PopularityLower: 20,
			PopularityUpper: 100,
			RowsOn:          false,
			RowLower:        0,
			RowUpper:        100,
		},
		Grouping:  GroupByTrack,
		Direction: Descending,
		BarWidth:  15,
	}
}

// Descending reports whether the sorting toggle is descending.
func (s State) Descending() bool {
	return s.Direction != Ascending
}

// ClampPopularity orders the two thumb values and clamps them into [0,100].
func ClampPopularity(a, b int) (lower, upper int) {
	lower = clamp(min(a, b), PopularityMin, PopularityMax)
	upper = clamp(max(a, b), PopularityMin, PopularityMax)
	return lower, upper
}

// ClampRows orders the two row inputs and clamps them into [0,89740].
func ClampRows(a, b int) (lower, upper int) {
	lower = clamp(min(a, b), RowMin, RowMax)
	upper = clamp(max(a, b), RowMin, RowMax)
	return lower, upper
}

// ClampBarWidth keeps the bar width at one cell or more.
func ClampBarWidth(w int) int {
	return max(w, 1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
