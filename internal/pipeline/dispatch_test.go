package pipeline

import (
	"os"
	"reflect"
	"testing"

	"github.com/ting0602/trackchart/internal/track"
	"github.com/ting0602/trackchart/internal/tracklog"
)

func TestMain(m *testing.M) {
	if err := tracklog.Initialize(os.DevNull); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDispatchEvents(t *testing.T) {
	records := []*track.Record{rec("a", 10), rec("b", 50), rec("c", 90)}
	d := NewDispatcher(records)
	s := DefaultState()

	tests := []struct {
		name  string
		ev    Event
		check func(State) bool
	}{
		{"grouping", SetGrouping{Key: GroupByAlbum}, func(s State) bool { return s.Grouping == GroupByAlbum }},
		{"direction", SetDirection{Direction: Ascending}, func(s State) bool { return !s.Descending() }},
		{"popularity off", TogglePopularity{On: false}, func(s State) bool { return !s.Filter.PopularityOn }},
		{"rows on", ToggleRows{On: true}, func(s State) bool { return s.Filter.RowsOn }},
		{"popularity range", SetPopularityRange{A: 70, B: 5}, func(s State) bool {
			return s.Filter.PopularityLower == 5 && s.Filter.PopularityUpper == 70
		}},
		{"row range", SetRowRange{A: -5, B: 1000000}, func(s State) bool {
			return s.Filter.RowLower == 0 && s.Filter.RowUpper == RowMax
		}},
		{"bar width", SetBarWidth{Width: 0}, func(s State) bool { return s.BarWidth == 1 }},
	}

	for _, tc := range tests {
		before := s
		next, res := d.Dispatch(s, tc.ev)
		if !tc.check(next) {
			t.Errorf("%s: state not updated: %+v", tc.name, next)
		}
		if !reflect.DeepEqual(s, before) {
			t.Errorf("%s: Dispatch mutated the previous state", tc.name)
		}
		if !reflect.DeepEqual(res, Run(records, next)) {
			t.Errorf("%s: result differs from a fresh run", tc.name)
		}
		s = next
	}
}

func TestDispatchRowWindowEmptiesChart(t *testing.T) {
	records := []*track.Record{rec("a", 10), rec("b", 50)}
	d := NewDispatcher(records)

	s, _ := d.Dispatch(DefaultState(), ToggleRows{On: true})
	s, res := d.Dispatch(s, SetRowRange{A: 5, B: 10})
	if !res.Empty() {
		t.Errorf("expected an empty result for a window past the data, got %d records", len(res.Records))
	}
	if !reflect.DeepEqual(d.Run(s), res) {
		t.Error("Run and Dispatch disagree")
	}
}
