package chart

import (
	"fmt"

	"github.com/ting0602/trackchart/internal/pipeline"
)

// TooltipItems is how many members a tooltip lists before summarising the rest.
const TooltipItems = 5

// TrackURLPrefix is the base of the external track link.
const TrackURLPrefix = "https://open.spotify.com/track/"

// TrackURL returns the external link of a track.
func TrackURL(id string) string {
	return TrackURLPrefix + id
}

// Tooltip returns the lines shown when the cursor rests on g's bar.
func Tooltip(g *pipeline.Group) []string {
	lines := []string{
		"Class: " + g.Key,
		fmt.Sprintf("Avg Popularity: %.1f", g.Rounded),
	}
	for i := 0; i < min(len(g.Members), TooltipItems); i++ {
		m := g.Members[i]
		lines = append(lines, fmt.Sprintf("● %s - Popularity: %s", m.Name, formatRaw(m.Popularity)))
	}
	if rest := len(g.Members) - TooltipItems; rest > 0 {
		lines = append(lines, fmt.Sprintf("Press enter to view %d more items", rest))
	}
	return lines
}

// Hint returns the notice drawn above the chart, or nil when there is nothing to
// say. The no-data notice wins over the overflow notice.
func Hint(res pipeline.Result) []string {
	if res.Empty() {
		return []string{
			"No data meets the restrictions.",
			"It is recommended to modify the range options.",
		}
	}
	if res.Overflow {
		return []string{
			fmt.Sprintf("Due to the large number of data, only the first %d data are displayed. (sorting by popularity)", pipeline.MaxVisible),
			"It is recommended to modify the range options.",
		}
	}
	return nil
}
