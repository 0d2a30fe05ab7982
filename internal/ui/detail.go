package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mattn/go-runewidth"

	"github.com/ting0602/trackchart/internal/chart"
	"github.com/ting0602/trackchart/internal/pipeline"
	"github.com/ting0602/trackchart/internal/track"
)

const (
	topGenres       = 5
	featureLabelW   = 24
	featureBarWidth = 24
)

// detailView is the popup listing every member of one bar. Each member is a
// collapsible panel.
type detailView struct {
	group    *pipeline.Group
	genres   []chart.GenreCount
	tempo    chart.TempoRange
	expanded map[int]bool
	cursor   int
	viewport viewport.Model
}

func newDetail(g *pipeline.Group, tempo chart.TempoRange, width, height int) *detailView {
	d := &detailView{
		group:    g,
		genres:   chart.TopGenres(g.Members, topGenres),
		tempo:    tempo,
		expanded: make(map[int]bool),
	}
	d.resize(width, height)
	return d
}

// resize fits the popup into a width x height terminal.
func (d *detailView) resize(width, height int) {
	w := max(20, min(width-4, 96))
	h := max(5, height-5)
	d.viewport = viewport.New(w-4, h)
	d.refresh()
}

func (d *detailView) move(delta int) {
	d.cursor = max(0, min(d.cursor+delta, len(d.group.Members)-1))
	d.refresh()
}

func (d *detailView) toggle() {
	d.expanded[d.cursor] = !d.expanded[d.cursor]
	d.refresh()
}

// selected returns the member under the cursor.
func (d *detailView) selected() *track.Record {
	if d.cursor < 0 || d.cursor >= len(d.group.Members) {
		return nil
	}
	return d.group.Members[d.cursor]
}

// refresh rebuilds the content and scrolls the selected header into view.
func (d *detailView) refresh() {
	lines, at := d.lines()
	d.viewport.SetContent(strings.Join(lines, "\n"))

	if at < d.viewport.YOffset {
		d.viewport.SetYOffset(at)
	} else if at >= d.viewport.YOffset+d.viewport.Height {
		d.viewport.SetYOffset(at - d.viewport.Height + 1)
	}
}

// lines returns the popup content and the line of the selected member header.
func (d *detailView) lines() ([]string, int) {
	g := d.group
	out := []string{
		headerStyle.Render("Class: " + g.Key),
		fmt.Sprintf("%d tracks, avg popularity %.1f", g.Count, g.Rounded),
	}
	if len(d.genres) > 0 {
		parts := make([]string, len(d.genres))
		for i, gc := range d.genres {
			parts[i] = fmt.Sprintf("%s ×%d", gc.Genre, gc.Count)
		}
		out = append(out, "Top genres: "+strings.Join(parts, ", "))
	}
	out = append(out, "")

	at := 0
	for i, r := range g.Members {
		arrow := "▶ "
		if d.expanded[i] {
			arrow = "▼ "
		}
		header := fmt.Sprintf("%s%s (%s)", arrow, r.Name, formatPopularity(r.Popularity))
		header = runewidth.Truncate(header, d.viewport.Width, "…")
		if i == d.cursor {
			at = len(out)
			header = selectedStyle.Render(header)
		}
		out = append(out, header)
		if d.expanded[i] {
			out = append(out, d.panel(r)...)
		}
	}
	return out, at
}

// panel is the expanded body of one member.
func (d *detailView) panel(r *track.Record) []string {
	const indent = "    "
	lines := []string{
		indent + "Album: " + r.Album,
		indent + "Artists: " + r.Artists,
		fmt.Sprintf("%sMode: %s   Length: %s   Time signature: %d", indent, r.ModeName(), r.Length(), r.TimeSignature),
		indent + "Genres: " + r.GenreList(),
	}
	for _, f := range chart.Features(r, d.tempo) {
		lines = append(lines, indent+runewidth.FillRight(runewidth.Truncate(f.Label, featureLabelW, "…"), featureLabelW)+
			" "+progressBar(f.Percent, featureBarWidth)+" "+f.Value)
	}
	lines = append(lines, indent+"Link: "+chart.TrackURL(r.ID), "")
	return lines
}

func (d *detailView) view() string {
	help := helpStyle.Render("[↑↓=move, enter=expand/collapse, o=open link, esc=close]")
	return popupStyle.Render(d.viewport.View() + "\n" + help)
}

// progressBar draws percent as a bar of width cells. Values beyond 100 are drawn
// full.
func progressBar(percent float64, width int) string {
	fill := int(math.Round(math.Max(0, math.Min(percent, 100)) / 100 * float64(width)))
	return featureFillStyle.Render(strings.Repeat("█", fill)) +
		featureEmptyStyle.Render(strings.Repeat("░", width-fill))
}

func formatPopularity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
