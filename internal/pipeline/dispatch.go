package pipeline

import (
	"github.com/ting0602/trackchart/internal/track"
	"github.com/ting0602/trackchart/internal/tracklog"
)

// Event is one external control change.
type Event interface {
	apply(State) State
}

// SetGrouping selects the grouping key.
type SetGrouping struct{ Key GroupKey }

// SetDirection selects the sorting toggle.
type SetDirection struct{ Direction Direction }

// TogglePopularity enables or disables the popularity filter.
type TogglePopularity struct{ On bool }

// ToggleRows enables or disables the row-range filter.
type ToggleRows struct{ On bool }

// SetPopularityRange carries the raw thumb values of the popularity range control.
type SetPopularityRange struct{ A, B int }

// SetRowRange carries the raw values of the two row inputs.
type SetRowRange struct{ A, B int }

// SetBarWidth carries the raw bar width.
type SetBarWidth struct{ Width int }

func (e SetGrouping) apply(s State) State {
	s.Grouping = e.Key
	return s
}

func (e SetDirection) apply(s State) State {
	s.Direction = e.Direction
	return s
}

func (e TogglePopularity) apply(s State) State {
	s.Filter.PopularityOn = e.On
	return s
}

func (e ToggleRows) apply(s State) State {
	s.Filter.RowsOn = e.On
	return s
}

func (e SetPopularityRange) apply(s State) State {
	s.Filter.PopularityLower, s.Filter.PopularityUpper = ClampPopularity(e.A, e.B)
	return s
}

func (e SetRowRange) apply(s State) State {
	s.Filter.RowLower, s.Filter.RowUpper = ClampRows(e.A, e.B)
	return s
}

func (e SetBarWidth) apply(s State) State {
	s.BarWidth = ClampBarWidth(e.Width)
	return s
}

// Dispatcher maps events to a new state and one pipeline run over a fixed table.
type Dispatcher struct {
	Records []*track.Record
}

// NewDispatcher returns a dispatcher over records.
func NewDispatcher(records []*track.Record) *Dispatcher {
	return &Dispatcher{Records: records}
}

// Dispatch applies ev to s and recomputes the view.
func (d *Dispatcher) Dispatch(s State, ev Event) (State, Result) {
	next := ev.apply(s)
	res := Run(d.Records, next)
	tracklog.Logger.Debugf("Event %T: %d records, %d groups, overflow=%t", ev, len(res.Records), len(res.Groups), res.Overflow)
	return next, res
}

// Run recomputes the view for s without changing it.
func (d *Dispatcher) Run(s State) Result {
	return Run(d.Records, s)
}
