// Package dataset implements the in-memory track table.
//
// A Dataset is built from one or more CSV sources. Rows sharing a track id are
// merged into a single record:
//
// { track_id --> Record{first-seen fields..., Genres: [genre1, genre2, ...]} }
//
// Record order is the order in which each track id was first seen.
package dataset

import (
	"math"

	"github.com/ting0602/trackchart/internal/track"
	"github.com/ting0602/trackchart/internal/tracklog"
)

// MergePolicy states how a row whose track id was already seen is folded into the
// existing record. Every field other than the genre always keeps its first-seen value.
type MergePolicy struct {
	// AppendGenre appends the duplicate row's genre to the record's genre list.
	AppendGenre bool
}

// DefaultMergePolicy keeps the first row and accumulates genres.
var DefaultMergePolicy = MergePolicy{AppendGenre: true}

// Dataset holds deduplicated track records.
type Dataset struct {
	Records []*track.Record
	index   map[string]*track.Record

	// MinTempo is the smallest non-zero tempo and MaxTempo the largest tempo seen
	// across every row, duplicates included. Both are zero when no tempo was seen.
	MinTempo float64
	MaxTempo float64

	// RowCount is the number of data rows read, Skipped the rows without a track id.
	RowCount int
	Skipped  int
}

// Len returns the number of unique tracks.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Get returns the record for id.
func (d *Dataset) Get(id string) (*track.Record, bool) {
	if d == nil {
		return nil, false
	}
	r, ok := d.index[id]
	return r, ok
}

// Builder accumulates rows into a Dataset in a single pass.
type Builder struct {
	policy   MergePolicy
	ds       *Dataset
	minTempo float64
	maxTempo float64
}

// NewBuilder returns a Builder applying policy to duplicate rows.
func NewBuilder(policy MergePolicy) *Builder {
	return &Builder{
		policy: policy,
		ds: &Dataset{
			index: make(map[string]*track.Record),
		},
		minTempo: math.Inf(1),
		maxTempo: math.Inf(-1),
	}
}

// Add folds one raw row into the dataset.
func (b *Builder) Add(row track.Row) {
	b.ds.RowCount++

	id := row[track.ColID]
	if id == "" {
		b.ds.Skipped++
		tracklog.Logger.Debugf("Row %d has no %s, skipping", b.ds.RowCount, track.ColID)
		return
	}

	if tempo, ok := track.ParseFloat(row[track.ColTempo]); ok {
		if tempo < b.minTempo && tempo != 0 {
			b.minTempo = tempo
		}
		if tempo > b.maxTempo {
			b.maxTempo = tempo
		}
	}

	if existing, ok := b.ds.index[id]; ok {
		if b.policy.AppendGenre {
			existing.Genres = append(existing.Genres, row[track.ColGenre])
		}
		return
	}

	rec, bad := track.FromRow(row)
	if len(bad) > 0 {
		tracklog.Logger.Debugf("Track %s: unparseable fields %v treated as zero", id, bad)
	}
	b.ds.index[id] = rec
	b.ds.Records = append(b.ds.Records, rec)
}

// Dataset finalises and returns the built dataset. The builder must not be used
// afterwards.
func (b *Builder) Dataset() *Dataset {
	if !math.IsInf(b.minTempo, 1) {
		b.ds.MinTempo = b.minTempo
	}
	if !math.IsInf(b.maxTempo, -1) {
		b.ds.MaxTempo = b.maxTempo
	}
	return b.ds
}
