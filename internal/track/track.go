// Package track describes a single music track as read from the tracks dataset.
package track

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names of the tracks CSV.
const (
	ColID            = "track_id"
	ColName          = "track_name"
	ColAlbum         = "album_name"
	ColArtists       = "artists"
	ColPopularity    = "popularity"
	ColDanceability  = "danceability"
	ColEnergy        = "energy"
	ColSpeechiness   = "speechiness"
	ColAcousticness  = "acousticness"
	ColLiveness      = "liveness"
	ColValence       = "valence"
	ColTempo         = "tempo"
	ColDurationMs    = "duration_ms"
	ColMode          = "mode"
	ColTimeSignature = "time_signature"
	ColGenre         = "track_genre"
)

// Columns lists every column the loader understands, in dataset order.
var Columns = []string{
	ColID, ColName, ColAlbum, ColArtists, ColPopularity,
	ColDanceability, ColEnergy, ColSpeechiness, ColAcousticness, ColLiveness, ColValence,
	ColTempo, ColDurationMs, ColMode, ColTimeSignature, ColGenre,
}

// Features holds the audio features that are fractions in [0,1].
type Features struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Speechiness  float64 `json:"speechiness"`
	Acousticness float64 `json:"acousticness"`
	Liveness     float64 `json:"liveness"`
	Valence      float64 `json:"valence"`
}

// Record is one unique track. Genres collects the genre of every dataset row that
// shared the track id, in row order.
type Record struct {
	ID            string   `json:"track_id"`
	Name          string   `json:"track_name"`
	Album         string   `json:"album_name"`
	Artists       string   `json:"artists"`
	Popularity    float64  `json:"popularity"`
	Features      Features `json:"features"`
	Tempo         float64  `json:"tempo"`
	DurationMs    float64  `json:"duration_ms"`
	Mode          int      `json:"mode"`
	TimeSignature int      `json:"time_signature"`
	Genres        []string `json:"track_genre"`
}

// Row is a raw dataset row keyed by column name.
type Row map[string]string

// FromRow builds a Record from a raw row. Numeric fields that fail to parse are
// reported in bad and left at zero; the record is always returned.
func FromRow(row Row) (rec *Record, bad []string) {
	num := func(col string) float64 {
		v, ok := ParseFloat(row[col])
		if !ok {
			bad = append(bad, col)
		}
		return v
	}

	rec = &Record{
		ID:         row[ColID],
		Name:       row[ColName],
		Album:      row[ColAlbum],
		Artists:    row[ColArtists],
		Popularity: num(ColPopularity),
		Features: Features{
			Danceability: num(ColDanceability),
			Energy:       num(ColEnergy),
			Speechiness:  num(ColSpeechiness),
			Acousticness: num(ColAcousticness),
			Liveness:     num(ColLiveness),
			Valence:      num(ColValence),
		},
		Tempo:         num(ColTempo),
		DurationMs:    num(ColDurationMs),
		Mode:          int(num(ColMode)),
		TimeSignature: int(num(ColTimeSignature)),
		Genres:        []string{row[ColGenre]},
	}
	return rec, bad
}

// ParseFloat parses a numeric CSV field. Blank fields, NaN and infinities count as
// unparseable and yield 0.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ModeName returns "Major" for mode 1 and "Minor" otherwise.
func (r *Record) ModeName() string {
	if r.Mode == 1 {
		return "Major"
	}
	return "Minor"
}

// Length formats the duration as m:ss.
func (r *Record) Length() string {
	total := int(math.Floor(r.DurationMs / 1000))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// GenreList joins the genres the way they are shown in the detail view.
func (r *Record) GenreList() string {
	return strings.Join(r.Genres, ",")
}
