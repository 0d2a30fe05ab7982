package ui

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ting0602/trackchart/internal/chart"
)

const (
	// barPadding is the inner and outer padding of the band scale.
	barPadding = 0.1

	yAxisWidth   = 7
	sideWidth    = 34
	minPlotWidth = 10
	minPlotRows  = 5
	emptyLabel   = "(empty)"
)

// span is the range of terminal columns a bar occupies on the full, unscrolled
// chart. last is inclusive.
type span struct {
	first, last int
}

// layout positions every group of the current result on the band scale. The chart
// is BarWidth cells per group wide and scrolls horizontally; ascending order
// reverses the band range so the first group lands at the right end.
func (m *Model) layout() {
	n := len(m.result.Groups)
	keys := make([]string, n)
	for i, g := range m.result.Groups {
		keys[i] = g.Key
	}

	total := float64(n * m.state.BarWidth)
	var band *chart.Band
	if m.state.Descending() {
		band = chart.NewBand(keys, 0, total, barPadding)
	} else {
		band = chart.NewBand(keys, total, 0, barPadding)
	}

	m.spans = make([]span, n)
	for i, k := range keys {
		start, _ := band.Position(k)
		first := int(math.Round(start))
		last := max(first, int(math.Round(start+band.Bandwidth()))-1)
		m.spans[i] = span{first: first, last: last}
	}

	m.visual = make([]int, n)
	for i := range m.visual {
		m.visual[i] = i
	}
	sort.SliceStable(m.visual, func(a, b int) bool {
		return m.spans[m.visual[a]].first < m.spans[m.visual[b]].first
	})
	m.totalWidth = int(math.Ceil(total))
}

// plotSize returns the width and height of the bar area.
func (m Model) plotSize() (w, h int) {
	w = max(minPlotWidth, m.width-yAxisWidth-sideWidth-1)

	reserved := 1 + len(chart.Hint(m.result)) + 1 + 2 + 1 + overviewHeight + 1 + 1
	switch m.mode {
	case modeRows:
		reserved += 2
	case modeSearch:
		reserved += 1 + searchResults
	}
	h = max(minPlotRows, m.height-reserved)
	return w, h
}

// ensureVisible scrolls so the bar under the cursor is on screen.
func (m *Model) ensureVisible() {
	if len(m.visual) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = max(0, min(m.cursor, len(m.visual)-1))

	w, _ := m.plotSize()
	sp := m.spans[m.visual[m.cursor]]
	if sp.first < m.offset {
		m.offset = sp.first
	}
	if sp.last >= m.offset+w {
		m.offset = sp.last - w + 1
	}
	m.offset = max(0, min(m.offset, m.totalWidth-w))
}

// visibleRange returns the first and last visual index with at least one cell on
// screen.
func (m Model) visibleRange() (lo, hi int) {
	w, _ := m.plotSize()
	lo, hi = -1, -1
	for v, gi := range m.visual {
		sp := m.spans[gi]
		if sp.last < m.offset || sp.first >= m.offset+w {
			continue
		}
		if lo < 0 {
			lo = v
		}
		hi = v
	}
	return lo, hi
}

// selectedGroup returns the index into result.Groups under the cursor.
func (m Model) selectedGroup() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visual) {
		return 0, false
	}
	return m.visual[m.cursor], true
}

func (m Model) renderChart() string {
	w, h := m.plotSize()
	res := m.result
	y := chart.PopularityAxis(res.MaxMean, float64(h))
	colors := chart.CountScale(res.MaxCount)
	selected, hasSelected := m.selectedGroup()

	// Group index per visible column, -1 for the gaps between bands.
	cols := make([]int, w)
	for i := range cols {
		cols[i] = -1
	}
	tops := make([]int, len(res.Groups))
	for gi, g := range res.Groups {
		tops[gi] = max(0, min(h, int(math.Round(y.Scale(g.Rounded)))))
		sp := m.spans[gi]
		for c := max(sp.first, m.offset); c <= sp.last && c < m.offset+w; c++ {
			cols[c-m.offset] = gi
		}
	}

	ticks := make(map[int]string)
	for _, v := range chart.Ticks(-1, res.MaxMean, max(2, h/3)) {
		row := int(math.Round(y.Scale(v)))
		if row >= 0 && row < h {
			ticks[row] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	var b strings.Builder
	for row := 0; row < h; row++ {
		if label, ok := ticks[row]; ok {
			b.WriteString(axisStyle.Render(fmt.Sprintf("%*s┤", yAxisWidth-1, label)))
		} else {
			b.WriteString(axisStyle.Render(strings.Repeat(" ", yAxisWidth-1) + "│"))
		}

		// Emit runs of equal cells so each bar row is styled once.
		for c := 0; c < w; {
			gi := cols[c]
			filled := gi >= 0 && row >= tops[gi]
			run := 1
			for c+run < w && cols[c+run] == gi && (gi >= 0 && row >= tops[gi]) == filled {
				run++
			}
			if !filled {
				b.WriteString(strings.Repeat(" ", run))
			} else {
				color := lipgloss.Color(colors.Color(res.Groups[gi].Count))
				if hasSelected && gi == selected {
					color = cursorBarColor
				}
				b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", run)))
			}
			c += run
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", yAxisWidth-1) + "└" + strings.Repeat("─", w)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", yAxisWidth))
	b.WriteString(m.renderLabels(w))
	return b.String()
}

// renderLabels writes each visible key under its bar, cut to the bar's width.
func (m Model) renderLabels(w int) string {
	selected, hasSelected := m.selectedGroup()
	var b strings.Builder
	col := 0
	for _, gi := range m.visual {
		sp := m.spans[gi]
		first := max(sp.first, m.offset) - m.offset
		last := min(sp.last, m.offset+w-1) - m.offset
		if last < first || first < col {
			continue
		}

		key := m.result.Groups[gi].Key
		if key == "" {
			key = emptyLabel
		}
		label := runewidth.Truncate(key, last-first+1, "…")

		b.WriteString(strings.Repeat(" ", first-col))
		style := labelStyle
		if hasSelected && gi == selected {
			style = selectedLabelStyle
		}
		b.WriteString(style.Render(label))
		col = first + runewidth.StringWidth(label)
	}
	return b.String()
}

// renderSide draws the colour legend and the tooltip of the bar under the cursor.
func (m Model) renderSide() string {
	colors := chart.CountScale(m.result.MaxCount)

	var legend strings.Builder
	legend.WriteString(headerStyle.Render("Tracks per bar"))
	for _, t := range chart.LegendTicks(m.result.MaxCount) {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Color(t))).Render("██")
		legend.WriteString("\n" + swatch + " " + strconv.Itoa(t))
	}

	parts := []string{legend.String()}
	if gi, ok := m.selectedGroup(); ok {
		lines := chart.Tooltip(m.result.Groups[gi])
		inner := sideWidth - 4
		for i, l := range lines {
			lines[i] = runewidth.Truncate(l, inner, "…")
		}
		parts = append(parts, tooltipStyle.Width(sideWidth-2).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatus() string {
	s := m.state
	onOff := func(on bool) string {
		if on {
			return statusOnStyle.Render("on")
		}
		return statusOffStyle.Render("off")
	}

	fields := []string{
		"Group: " + s.Grouping.Label(),
		"Sort: " + string(s.Direction),
		fmt.Sprintf("Popularity: %s [%d,%d]", onOff(s.Filter.PopularityOn), s.Filter.PopularityLower, s.Filter.PopularityUpper),
		fmt.Sprintf("Rows: %s [%d,%d]", onOff(s.Filter.RowsOn), s.Filter.RowLower, s.Filter.RowUpper),
		fmt.Sprintf("Width: %d", s.BarWidth),
		fmt.Sprintf("%d tracks, %d bars", len(m.result.Records), len(m.result.Groups)),
	}
	return statusStyle.Render(strings.Join(fields, " │ "))
}
