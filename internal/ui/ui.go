package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/ting0602/trackchart/internal/chart"
	"github.com/ting0602/trackchart/internal/dataset"
	"github.com/ting0602/trackchart/internal/pipeline"
	"github.com/ting0602/trackchart/internal/tracklog"
)

const (
	defaultWidth  = 120
	defaultHeight = 36

	// popularityStep is how far one key press moves a popularity bound.
	popularityStep = 5
	barWidthStep   = 1
)

type mode int

const (
	modeChart mode = iota
	modeRows
	modeSearch
	modeDetail
)

// statusMsg carries the outcome of a background command to the status line.
type statusMsg struct {
	text string
	err  error
}

// Model holds the state of the TUI
type Model struct {
	dispatcher *pipeline.Dispatcher
	state      pipeline.State
	result     pipeline.Result
	tempo      chart.TempoRange

	width, height int
	mode          mode

	// Bar layout of the current result, rebuilt on every dispatch.
	spans      []span
	visual     []int
	totalWidth int
	cursor     int
	offset     int

	overview  *plot.Canvas
	lineColor plot.Color

	rowInput    textinput.Model
	rowErr      string
	searchInput textinput.Model
	matches     []int
	detail      *detailView

	help     help.Model
	status   string
	quitting bool
}

// Program instance to allow stopping from main
var Program *tea.Program

// openURL hands url to the system browser.
var openURL = func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// LaunchTUI runs the chart over ds starting from s until the user quits.
func LaunchTUI(ds *dataset.Dataset, s pipeline.State) error {
	m := New(ds, s)
	Program = tea.NewProgram(m, tea.WithAltScreen())

	if _, err := Program.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}

// New returns the model for ds with s as the initial state.
func New(ds *dataset.Dataset, s pipeline.State) Model {
	ri := textinput.New()
	ri.Prompt = "Rows (lower upper): "
	ri.Placeholder = fmt.Sprintf("%d %d", s.Filter.RowLower, s.Filter.RowUpper)
	ri.CharLimit = 16

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "search bars"

	m := Model{
		dispatcher:  pipeline.NewDispatcher(ds.Records),
		state:       s,
		tempo:       chart.TempoRange{Min: ds.MinTempo, Max: ds.MaxTempo},
		width:       defaultWidth,
		height:      defaultHeight,
		lineColor:   overviewLineColor(),
		rowInput:    ri,
		searchInput: si,
		help:        help.New(),
	}
	m.result = m.dispatcher.Run(s)
	m.relayout()
	return m
}

// Init is called when the program starts
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.relayout()
		if m.detail != nil {
			m.detail.resize(m.width, m.height)
		}
		return m, nil

	case statusMsg:
		if msg.err != nil {
			tracklog.Logger.Warnf("%s: %v", msg.text, msg.err)
			m.status = errorStyle.Render(fmt.Sprintf("%s: %v", msg.text, msg.err))
		} else {
			m.status = msg.text
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeRows:
			return m.updateRows(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			return m.updateDetail(msg)
		}
		return m.updateChart(msg)
	}
	return m, nil
}

func (m Model) updateChart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	f := s.Filter
	m.status = ""

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Left):
		m.cursor--
		m.ensureVisible()

	case key.Matches(msg, keys.Right):
		m.cursor++
		m.ensureVisible()

	case key.Matches(msg, keys.Group):
		m.dispatch(pipeline.SetGrouping{Key: s.Grouping.Next()})

	case key.Matches(msg, keys.Sort):
		dir := pipeline.Ascending
		if !s.Descending() {
			dir = pipeline.Descending
		}
		m.dispatch(pipeline.SetDirection{Direction: dir})

	case key.Matches(msg, keys.Popularity):
		m.dispatch(pipeline.TogglePopularity{On: !f.PopularityOn})

	case key.Matches(msg, keys.Rows):
		m.dispatch(pipeline.ToggleRows{On: !f.RowsOn})

	case key.Matches(msg, keys.LowerDown):
		m.dispatch(pipeline.SetPopularityRange{A: f.PopularityLower - popularityStep, B: f.PopularityUpper})

	case key.Matches(msg, keys.LowerUp):
		m.dispatch(pipeline.SetPopularityRange{A: f.PopularityLower + popularityStep, B: f.PopularityUpper})

	case key.Matches(msg, keys.UpperDown):
		m.dispatch(pipeline.SetPopularityRange{A: f.PopularityLower, B: f.PopularityUpper - popularityStep})

	case key.Matches(msg, keys.UpperUp):
		m.dispatch(pipeline.SetPopularityRange{A: f.PopularityLower, B: f.PopularityUpper + popularityStep})

	case key.Matches(msg, keys.Wider):
		m.dispatch(pipeline.SetBarWidth{Width: s.BarWidth + barWidthStep})

	case key.Matches(msg, keys.Narrower):
		m.dispatch(pipeline.SetBarWidth{Width: s.BarWidth - barWidthStep})

	case key.Matches(msg, keys.RowRange):
		m.mode = modeRows
		m.rowErr = ""
		m.rowInput.SetValue("")
		m.rowInput.Placeholder = fmt.Sprintf("%d %d", f.RowLower, f.RowUpper)
		m.relayout()
		return m, m.rowInput.Focus()

	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.matches = nil
		m.searchInput.SetValue("")
		m.relayout()
		return m, m.searchInput.Focus()

	case key.Matches(msg, keys.Detail):
		if gi, ok := m.selectedGroup(); ok {
			m.detail = newDetail(m.result.Groups[gi], m.tempo, m.width, m.height)
			m.mode = modeDetail
		}

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
	}
	return m, nil
}

// updateRows handles the row range prompt. Malformed input keeps the prompt open
// and the state unchanged.
func (m Model) updateRows(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		lo, hi, err := parseRowRange(m.rowInput.Value())
		if err != nil {
			m.rowErr = err.Error()
			return m, nil
		}
		m.closePrompt()
		m.dispatch(pipeline.SetRowRange{A: lo, B: hi})
		return m, nil
	}

	var cmd tea.Cmd
	m.rowInput, cmd = m.rowInput.Update(msg)
	m.rowErr = ""
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		if len(m.matches) > 0 {
			m.jumpTo(m.matches[0])
		}
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.matches = m.searchGroups(m.searchInput.Value())
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.detail
	switch {
	case key.Matches(msg, detailKeys.Close):
		m.detail = nil
		m.mode = modeChart
		return m, nil

	case key.Matches(msg, detailKeys.Up):
		d.move(-1)

	case key.Matches(msg, detailKeys.Down):
		d.move(1)

	case key.Matches(msg, detailKeys.Toggle):
		d.toggle()

	case key.Matches(msg, detailKeys.Open):
		if r := d.selected(); r != nil {
			return m, openCmd(chart.TrackURL(r.ID))
		}

	default:
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func openCmd(url string) tea.Cmd {
	return func() tea.Msg {
		tracklog.Logger.Infof("Opening %s", url)
		if err := openURL(url); err != nil {
			return statusMsg{text: "open " + url, err: err}
		}
		return statusMsg{text: "Opened " + url}
	}
}

func (m *Model) closePrompt() {
	m.mode = modeChart
	m.rowInput.Blur()
	m.searchInput.Blur()
	m.matches = nil
	m.rowErr = ""
	m.relayout()
}

// dispatch applies one control event and redraws from the new result. The cursor
// stays on the same key when it survives the change.
func (m *Model) dispatch(ev pipeline.Event) {
	var prev string
	if gi, ok := m.selectedGroup(); ok {
		prev = m.result.Groups[gi].Key
	}

	m.state, m.result = m.dispatcher.Dispatch(m.state, ev)
	m.relayout()

	if g, ok := m.result.Group(prev); ok {
		for gi, cand := range m.result.Groups {
			if cand == g {
				m.jumpTo(gi)
				break
			}
		}
	}
}

func (m *Model) relayout() {
	m.layout()
	m.ensureVisible()
	m.refreshOverview()
}

// parseRowRange reads two integers separated by spaces or a comma.
func parseRowRange(s string) (lo, hi int, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("enter two row numbers, e.g. 0 100")
	}
	if lo, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("lower bound %q is not a number", fields[0])
	}
	if hi, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("upper bound %q is not a number", fields[1])
	}
	return lo, hi, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.mode == modeDetail && m.detail != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.detail.view())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Popularity of tracks") + "\n")

	hint := chart.Hint(m.result)
	if m.result.Empty() {
		b.WriteString(m.renderStatus() + "\n\n")
		for _, l := range hint {
			b.WriteString(hintStyle.Render(l) + "\n")
		}
		b.WriteString("\n" + m.renderPrompt())
		b.WriteString(m.help.View(keys))
		return b.String()
	}

	for _, l := range hint {
		b.WriteString(hintStyle.Render(l) + "\n")
	}
	b.WriteString(m.renderStatus() + "\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderChart(), " ", m.renderSide())
	b.WriteString(body + "\n")
	b.WriteString(m.renderOverview() + "\n")
	b.WriteString(m.renderPrompt())

	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

// renderPrompt draws the open prompt, if any, with its error or matches.
func (m Model) renderPrompt() string {
	switch m.mode {
	case modeRows:
		out := m.rowInput.View() + "\n"
		if m.rowErr != "" {
			out += errorStyle.Render(m.rowErr)
		}
		return out + "\n"

	case modeSearch:
		var b strings.Builder
		b.WriteString(m.searchInput.View() + "\n")
		for i := 0; i < searchResults; i++ {
			if i < len(m.matches) {
				g := m.result.Groups[m.matches[i]]
				b.WriteString(labelStyle.Render(fmt.Sprintf("  %s (%.1f)", g.Key, g.Rounded)))
			}
			b.WriteString("\n")
		}
		return b.String()
	}
	return ""
}
