package ui

import (
	"fmt"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ting0602/trackchart/internal/dataset"
	"github.com/ting0602/trackchart/internal/pipeline"
	"github.com/ting0602/trackchart/internal/tracklog"
)

// Need to initialize logger
func TestMain(m *testing.M) {
	if err := tracklog.Initialize(os.DevNull); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const header = "track_id,track_name,album_name,artists,popularity,danceability,energy,speechiness,acousticness,liveness,valence,tempo,duration_ms,mode,time_signature,track_genre\n"

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	csv := header +
		"T1,Alpha,AlbA,ArtA,90,0.5,0.5,0.1,0.1,0.1,0.5,120,200000,1,4,pop\n" +
		"T2,Beta,AlbA,ArtB,60,0.5,0.5,0.1,0.1,0.1,0.5,100,180000,0,4,rock\n" +
		"T3,Gamma,AlbB,ArtA,40,0.5,0.5,0.1,0.1,0.1,0.5,90,150000,1,3,jazz\n" +
		"T4,Delta,AlbC,ArtC,30,0.5,0.5,0.1,0.1,0.1,0.5,80,210000,1,4,pop\n" +
		"T5,Alpha,AlbD,ArtD,70,0.5,0.5,0.1,0.1,0.1,0.5,140,240000,0,4,pop\n"
	ds, err := dataset.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return ds
}

// press feeds keys to m one at a time. Named keys map to their key type, anything
// else is typed as runes.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	named := map[string]tea.KeyType{
		"enter": tea.KeyEnter,
		"esc":   tea.KeyEsc,
		"left":  tea.KeyLeft,
		"right": tea.KeyRight,
		"up":    tea.KeyUp,
		"down":  tea.KeyDown,
	}
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		if kt, ok := named[k]; ok {
			msg = tea.KeyMsg{Type: kt}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func selectedKey(t *testing.T, m Model) string {
	t.Helper()
	gi, ok := m.selectedGroup()
	if !ok {
		t.Fatal("no bar selected")
	}
	return m.result.Groups[gi].Key
}

func TestNewRunsPipeline(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())

	if got := len(m.result.Groups); got != 4 {
		t.Fatalf("expected 4 bars, got %d", got)
	}
	if got := selectedKey(t, m); got != "Alpha" {
		t.Fatalf("expected cursor on the highest bar, got %q", got)
	}
	if m.tempo.Min != 80 || m.tempo.Max != 140 {
		t.Fatalf("unexpected tempo range %+v", m.tempo)
	}
}

func TestGroupingKeyCycles(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())

	m = press(t, m, "g")
	if m.state.Grouping != pipeline.GroupByAlbum {
		t.Fatalf("expected album grouping, got %s", m.state.Grouping)
	}
	m = press(t, m, "g")
	if m.state.Grouping != pipeline.GroupByArtist {
		t.Fatalf("expected artist grouping, got %s", m.state.Grouping)
	}
	if got := len(m.result.Groups); got != 4 {
		t.Fatalf("expected 4 artist bars, got %d", got)
	}
	m = press(t, m, "g")
	if m.state.Grouping != pipeline.GroupByTrack {
		t.Fatalf("expected track grouping again, got %s", m.state.Grouping)
	}
}

func TestSortToggleReversesBars(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())
	if m.visual[0] != 0 {
		t.Fatalf("descending chart should start with the highest bar")
	}

	m = press(t, m, "s")
	if m.state.Direction != pipeline.Ascending {
		t.Fatalf("expected ascending, got %s", m.state.Direction)
	}
	if got := m.result.Groups[m.visual[0]].Key; got != "Delta" {
		t.Fatalf("expected lowest bar first when ascending, got %q", got)
	}
	// The cursor follows its bar to the other end.
	if got := selectedKey(t, m); got != "Alpha" || m.cursor != 3 {
		t.Fatalf("cursor on %q at %d, want Alpha at 3", got, m.cursor)
	}
}

func TestBarsDoNotOverlap(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())

	prev := -1
	for _, gi := range m.visual {
		sp := m.spans[gi]
		if sp.first <= prev {
			t.Fatalf("bar %d starts at %d, overlapping previous end %d", gi, sp.first, prev)
		}
		if width := sp.last - sp.first + 1; width < 1 || width > m.state.BarWidth {
			t.Fatalf("bar %d is %d cells wide", gi, width)
		}
		prev = sp.last
	}
}

func TestCursorScrollsIntoView(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "T%d,Song %02d,Album,Artist,%d,0,0,0,0,0,0,100,1000,1,4,pop\n", i, i, 99-i)
	}
	ds, err := dataset.Read(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}

	m := New(ds, pipeline.DefaultState())
	w, _ := m.plotSize()
	for i := 0; i < 25; i++ {
		m = press(t, m, "right")
	}
	if m.cursor != 25 {
		t.Fatalf("cursor = %d, want 25", m.cursor)
	}
	sp := m.spans[m.visual[m.cursor]]
	if sp.first < m.offset || sp.last >= m.offset+w {
		t.Fatalf("bar %+v not inside window [%d,%d)", sp, m.offset, m.offset+w)
	}

	lo, hi := m.visibleRange()
	if lo > 25 || hi < 25 {
		t.Fatalf("visible range %d..%d misses the cursor", lo, hi)
	}

	for i := 0; i < 100; i++ {
		m = press(t, m, "right")
	}
	if m.cursor != 39 {
		t.Fatalf("cursor should stop at the last bar, got %d", m.cursor)
	}
}

func TestPopularityKeysClampAndEmpty(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())

	m = press(t, m, "[", "[", "[", "[", "[", "[")
	if f := m.state.Filter; f.PopularityLower != 0 || f.PopularityUpper != 100 {
		t.Fatalf("unexpected range [%d,%d]", f.PopularityLower, f.PopularityUpper)
	}

	for i := 0; i < 25; i++ {
		m = press(t, m, "]")
	}
	if f := m.state.Filter; f.PopularityLower != 100 || f.PopularityUpper != 100 {
		t.Fatalf("unexpected range [%d,%d]", f.PopularityLower, f.PopularityUpper)
	}
	if !m.result.Empty() {
		t.Fatalf("expected no data at popularity 100")
	}
	if view := m.View(); !strings.Contains(view, "No data meets the restrictions.") {
		t.Fatalf("empty view lacks the no-data hint:\n%s", view)
	}

	m = press(t, m, "p")
	if m.state.Filter.PopularityOn || m.result.Empty() {
		t.Fatalf("turning the filter off should bring the bars back")
	}
}

func TestBarWidthKeys(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())

	m = press(t, m, "+")
	if m.state.BarWidth != 16 {
		t.Fatalf("expected width 16, got %d", m.state.BarWidth)
	}
	for i := 0; i < 30; i++ {
		m = press(t, m, "-")
	}
	if m.state.BarWidth != 1 {
		t.Fatalf("expected width clamped to 1, got %d", m.state.BarWidth)
	}
}

func TestRowPrompt(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())
	before := m.state

	m = press(t, m, "R", "a", "b", "c", "enter")
	if m.mode != modeRows || m.rowErr == "" {
		t.Fatalf("malformed input should keep the prompt open with an error")
	}
	if m.state != before {
		t.Fatalf("malformed input changed the state")
	}

	m = press(t, m, "esc", "R", "4", " ", "1", "enter")
	if m.mode != modeChart {
		t.Fatalf("prompt should close on valid input")
	}
	if f := m.state.Filter; f.RowLower != 1 || f.RowUpper != 4 {
		t.Fatalf("unexpected row range [%d,%d]", f.RowLower, f.RowUpper)
	}

	m = press(t, m, "r")
	if !m.state.Filter.RowsOn {
		t.Fatalf("row filter should be on")
	}
	// The window [1,4) holds Beta, Gamma and Delta.
	if got := len(m.result.Records); got != 3 {
		t.Fatalf("expected 3 records in the row window, got %d", got)
	}
}

func TestSearchJumpsToBar(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())

	m = press(t, m, "/", "g", "m")
	if m.mode != modeSearch || len(m.matches) == 0 {
		t.Fatalf("expected matches for \"gm\", got %v", m.matches)
	}
	m = press(t, m, "enter")
	if got := selectedKey(t, m); got != "Gamma" {
		t.Fatalf("expected cursor on Gamma, got %q", got)
	}
	if m.mode != modeChart {
		t.Fatalf("search should close after enter")
	}
}

func TestDetailPopup(t *testing.T) {
	var opened []string
	orig := openURL
	openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	t.Cleanup(func() { openURL = orig })

	m := New(sampleDataset(t), pipeline.DefaultState())
	m = press(t, m, "enter")
	if m.mode != modeDetail || m.detail == nil {
		t.Fatalf("enter should open the detail popup")
	}
	if got := len(m.detail.group.Members); got != 2 {
		t.Fatalf("expected 2 members of Alpha, got %d", got)
	}

	m = press(t, m, "down", "enter")
	lines, at := m.detail.lines()
	content := strings.Join(lines, "\n")
	if !strings.Contains(content, "Album: AlbD") || strings.Contains(content, "Album: AlbA") {
		t.Fatalf("only the second member should be expanded:\n%s", content)
	}
	if !strings.Contains(lines[at], "Alpha (70)") {
		t.Fatalf("selected line %q is not the second member", lines[at])
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a command opening the link")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if len(opened) != 1 || opened[0] != "https://open.spotify.com/track/T5" {
		t.Fatalf("opened %v", opened)
	}
	if !strings.Contains(m.status, "T5") {
		t.Fatalf("status = %q", m.status)
	}

	m = press(t, m, "esc")
	if m.mode != modeChart || m.detail != nil {
		t.Fatalf("esc should close the popup")
	}
}

func TestViewShowsChart(t *testing.T) {
	m := New(sampleDataset(t), pipeline.DefaultState())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"Popularity of tracks", "Class: Alpha", "Avg Popularity: 80.0", "Tracks per bar", "Beta"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
}

func TestParseRowRange(t *testing.T) {
	cases := []struct {
		in     string
		lo, hi int
		ok     bool
	}{
		{"0 100", 0, 100, true},
		{"10,20", 10, 20, true},
		{"  5   7 ", 5, 7, true},
		{"5", 0, 0, false},
		{"a b", 0, 0, false},
		{"1 2 3", 0, 0, false},
	}
	for _, tc := range cases {
		lo, hi, err := parseRowRange(tc.in)
		if (err == nil) != tc.ok || lo != tc.lo || hi != tc.hi {
			t.Errorf("parseRowRange(%q) = %d, %d, %v", tc.in, lo, hi, err)
		}
	}
}
