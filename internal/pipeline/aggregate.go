package pipeline

import (
	"math"

	"github.com/ting0602/trackchart/internal/track"
)

// Group is one bucket of records sharing a grouping key value.
type Group struct {
	Key   string
	Count int
	// Mean is the arithmetic mean of member popularity; Rounded is Mean rounded to
	// one decimal place and is what gets displayed and ordered on.
	Mean    float64
	Rounded float64
	Members []*track.Record
}

// KeyOf returns the grouping value of r under k.
func KeyOf(r *track.Record, k GroupKey) string {
	switch k {
	case GroupByAlbum:
		return r.Album
	case GroupByArtist:
		return r.Artists
	default:
		return r.Name
	}
}

// Aggregate buckets records by k. Groups come back in the order their first member
// appears and members keep their input order.
func Aggregate(records []*track.Record, k GroupKey) []*Group {
	index := make(map[string]*Group)
	groups := make([]*Group, 0)

	for _, r := range records {
		key := KeyOf(r, k)
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Members = append(g.Members, r)
	}

	for _, g := range groups {
		var sum float64
		for _, m := range g.Members {
			sum += m.Popularity
		}
		g.Count = len(g.Members)
		g.Mean = sum / float64(g.Count)
		g.Rounded = RoundTenth(g.Mean)
	}
	return groups
}

// RoundTenth rounds to one decimal place, halves away from zero.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
