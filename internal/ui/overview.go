package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
)

const overviewHeight = 4

func overviewLineColor() plot.Color {
	if lipgloss.HasDarkBackground() {
		return plot.LightGray
	}
	return plot.DimGray
}

var (
	windowMarkStyle = lipgloss.NewStyle().Foreground(cursorBarColor)
	overviewStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// refreshOverview redraws the braille curve of every bar's mean in screen order.
func (m *Model) refreshOverview() {
	width := max(minPlotWidth, m.width-sideWidth-1)
	if len(m.visual) < 2 {
		m.overview = nil
		return
	}

	series := make([]float64, len(m.visual))
	for v, gi := range m.visual {
		series[v] = m.result.Groups[gi].Rounded
	}

	c := plot.NewCanvas(width, overviewHeight)
	c.NumDataPoints = len(series)
	c.ShowAxis = false
	c.LineColors = []plot.Color{m.lineColor}
	c.Fill([][]float64{series})
	m.overview = &c
}

// renderOverview returns the curve and, below it, a marker of the part of the chart
// that is on screen.
func (m Model) renderOverview() string {
	if m.overview == nil {
		return strings.Repeat("\n", overviewHeight)
	}
	width := max(minPlotWidth, m.width-sideWidth-1)
	curve := strings.TrimRight(m.overview.String(), "\n")

	lo, hi := m.visibleRange()
	n := len(m.visual)
	a, b := 0, width
	if lo >= 0 && n > 0 {
		a = lo * width / n
		b = max(a+1, (hi+1)*width/n)
	}
	marker := overviewStyle.Render(strings.Repeat("─", a)) +
		windowMarkStyle.Render(strings.Repeat("━", b-a)) +
		overviewStyle.Render(strings.Repeat("─", max(0, width-b)))

	return curve + "\n" + marker
}
