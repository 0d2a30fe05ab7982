// This package contains benchmark related logic/tests.
package bench

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/ting0602/trackchart/internal/chart"
	"github.com/ting0602/trackchart/internal/dataset"
	"github.com/ting0602/trackchart/internal/pipeline"
	"github.com/ting0602/trackchart/internal/track"
	"github.com/ting0602/trackchart/internal/tracklog"
)

const benchRows = 90000

func TestMain(m *testing.M) {
	// Use /dev/null to avoid creating log files during benchmarks
	if err := tracklog.Initialize(os.DevNull); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// synthCSV returns a CSV of n rows where every seventh row repeats an earlier id.
func synthCSV(n int) []byte {
	r := rand.New(rand.NewPCG(1, 2))
	var b bytes.Buffer
	b.WriteString("track_id,track_name,album_name,artists,popularity,danceability,energy,speechiness,acousticness,liveness,valence,tempo,duration_ms,mode,time_signature,track_genre\n")
	for i := 0; i < n; i++ {
		id := i
		if i > 0 && i%7 == 0 {
			id = r.IntN(i)
		}
		fmt.Fprintf(&b, "t%d,Song %d,Album %d,Artist %d,%d,0.5,0.5,0.1,0.2,0.3,0.4,%.2f,200000,1,4,genre%d\n",
			id, id%30000, id%9000, id%4000, r.IntN(101), 60+r.Float64()*140, r.IntN(20))
	}
	return b.Bytes()
}

func synthRecords(b *testing.B) []*track.Record {
	b.Helper()
	ds, err := dataset.ReadAll([][]byte{synthCSV(benchRows)})
	if err != nil {
		b.Fatal(err)
	}
	return ds.Records
}

// BenchmarkReadAll measures parsing and merging a full-size table.
func BenchmarkReadAll(b *testing.B) {
	data := [][]byte{synthCSV(benchRows)}

	b.ResetTimer()
	for b.Loop() {
		if _, err := dataset.ReadAll(data); err != nil {
			b.Fatalf("ReadAll failed: %v", err)
		}
	}
}

// BenchmarkPipelineRun measures one control change end to end.
func BenchmarkPipelineRun(b *testing.B) {
	records := synthRecords(b)

	for _, key := range pipeline.GroupKeys {
		b.Run(string(key), func(b *testing.B) {
			s := pipeline.DefaultState()
			s.Grouping = key
			for b.Loop() {
				pipeline.Run(records, s)
			}
		})
	}
}

// BenchmarkFilterNoCap runs the filter with popularity off, so every record is
// sorted before the cap.
func BenchmarkFilterNoCap(b *testing.B) {
	records := synthRecords(b)
	f := pipeline.DefaultState().Filter
	f.PopularityOn = false

	b.ResetTimer()
	for b.Loop() {
		pipeline.Apply(records, f, true)
	}
}

// BenchmarkTopGenres measures the genre leaderboard over a large group.
func BenchmarkTopGenres(b *testing.B) {
	records := synthRecords(b)

	b.ResetTimer()
	for b.Loop() {
		chart.TopGenres(records, 5)
	}
}
