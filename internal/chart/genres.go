package chart

import (
	"github.com/keilerkonzept/topk"

	"github.com/ting0602/trackchart/internal/track"
)

// GenreCount is one entry of a genre leaderboard.
type GenreCount struct {
	Genre string
	Count uint32
}

const (
	genreSketchWidth = 1024
	genreSketchDepth = 3
)

// TopGenres returns up to k of the most frequent genres among records, most
// frequent first. Every genre entry of a record counts, duplicates included.
func TopGenres(records []*track.Record, k int) []GenreCount {
	if k < 1 || len(records) == 0 {
		return nil
	}
	sketch := topk.New(k, topk.WithWidth(genreSketchWidth), topk.WithDepth(genreSketchDepth))
	for _, r := range records {
		for _, g := range r.Genres {
			if g == "" {
				continue
			}
			sketch.Incr(g)
		}
	}

	items := sketch.SortedSlice()
	out := make([]GenreCount, 0, len(items))
	for _, it := range items {
		if it.Count == 0 {
			continue
		}
		out = append(out, GenreCount{Genre: it.Item, Count: it.Count})
	}
	return out
}
