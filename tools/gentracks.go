//go:build tools
// +build tools

package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
)

var genres = []string{"pop", "rock", "jazz", "k-pop", "acoustic", "metal", "edm", "folk"}

var header = []string{
	"track_id", "track_name", "album_name", "artists", "popularity",
	"danceability", "energy", "speechiness", "acousticness", "liveness", "valence",
	"tempo", "duration_ms", "mode", "time_signature", "track_genre",
}

func unit(r *rand.Rand) string {
	return strconv.FormatFloat(r.Float64(), 'f', 4, 64)
}

// writeTracks writes n rows. Every dup-th row repeats an earlier track id under a
// different genre so merged records get several genres.
func writeTracks(path string, n, dup int, seed uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		id := i
		if dup > 0 && i > 0 && i%dup == 0 {
			id = r.IntN(i)
		}
		row := []string{
			fmt.Sprintf("trk%06d", id),
			fmt.Sprintf("Song %d", id%(n/3+1)),
			fmt.Sprintf("Album %d", id%(n/10+1)),
			fmt.Sprintf("Artist %d", id%(n/20+1)),
			strconv.Itoa(r.IntN(101)),
			unit(r), unit(r), unit(r), unit(r), unit(r), unit(r),
			strconv.FormatFloat(60+r.Float64()*140, 'f', 3, 64),
			strconv.Itoa(90000 + r.IntN(240000)),
			strconv.Itoa(r.IntN(2)),
			strconv.Itoa(3 + r.IntN(3)),
			genres[r.IntN(len(genres))],
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func main() {
	out := flag.String("out", "tracks.csv", "Output CSV path.")
	n := flag.Int("n", 100000, "Number of rows.")
	dup := flag.Int("dup", 7, "Repeat an earlier track id every dup rows (0 disables).")
	seed := flag.Uint64("seed", 1, "Random seed.")
	flag.Parse()

	if err := writeTracks(*out, *n, *dup, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Wrote", *n, "rows to", *out)
}
