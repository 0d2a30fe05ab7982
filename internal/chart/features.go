package chart

import (
	"fmt"
	"strconv"

	"github.com/ting0602/trackchart/internal/track"
)

// FeatureNames lists the bars of a track panel in display order.
var FeatureNames = []string{
	"popularity", "danceability", "energy", "speechiness",
	"acousticness", "liveness", "valence", "tempo",
}

// TempoRange is the normalisation range for tempo bars, taken once from the
// whole dataset.
type TempoRange struct {
	Min float64
	Max float64
}

// FeatureBar is one progress bar of a track panel.
type FeatureBar struct {
	Name string
	// Percent is the bar fill. Tempo is not clamped and may exceed 100.
	Percent float64
	// Value is the text drawn inside the bar, Label the text next to it.
	Value string
	Label string
}

// Features returns the eight progress bars of r.
func Features(r *track.Record, tempo TempoRange) []FeatureBar {
	raw := map[string]float64{
		"popularity":   r.Popularity,
		"danceability": r.Features.Danceability,
		"energy":       r.Features.Energy,
		"speechiness":  r.Features.Speechiness,
		"acousticness": r.Features.Acousticness,
		"liveness":     r.Features.Liveness,
		"valence":      r.Features.Valence,
		"tempo":        r.Tempo,
	}

	bars := make([]FeatureBar, 0, len(FeatureNames))
	for _, name := range FeatureNames {
		v := raw[name]
		bar := FeatureBar{Name: name, Label: name}

		switch name {
		case "popularity":
			bar.Percent = v
			bar.Value = formatRaw(v) + "%"
		case "tempo":
			bar.Percent = TempoPercent(v, tempo)
			bar.Value = fmt.Sprintf("%.1f%%", bar.Percent)
		default:
			bar.Percent = v * 100
			bar.Value = fmt.Sprintf("%.1f%%", bar.Percent)
		}

		if v*100 < 1 {
			if name == "tempo" && v == 0 {
				bar.Label = "tempo (None)"
			} else {
				bar.Label = fmt.Sprintf("%s (%s%%)", name, formatRaw(v))
			}
		}
		bars = append(bars, bar)
	}
	return bars
}

// TempoPercent normalises a tempo as (tempo - min) / max * 100.
func TempoPercent(tempo float64, rng TempoRange) float64 {
	if rng.Max == 0 {
		return 0
	}
	return (tempo - rng.Min) / rng.Max * 100
}

func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
