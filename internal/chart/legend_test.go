package chart

import (
	"reflect"
	"testing"
)

func TestLegendTicks(t *testing.T) {
	tests := []struct {
		maxCount int
		want     []int
	}{
		{0, nil},
		{1, []int{1}},
		{3, []int{1, 2, 3}},
		{10, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{20, []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}},
		{100, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
	}
	for _, tc := range tests {
		got := LegendTicks(tc.maxCount)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("LegendTicks(%d) = %v; want %v", tc.maxCount, got, tc.want)
		}
		if len(got) > MaxLegendTicks {
			t.Errorf("LegendTicks(%d) returned %d ticks", tc.maxCount, len(got))
		}
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		start, stop float64
		count       int
		want        []float64
	}{
		{0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{0, 10, 10, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{10, 0, 2, []float64{10, 5, 0}},
		{4, 4, 3, []float64{4}},
		{0, 10, 0, nil},
	}
	for _, tc := range tests {
		got := Ticks(tc.start, tc.stop, tc.count)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Ticks(%v, %v, %d) = %v; want %v", tc.start, tc.stop, tc.count, got, tc.want)
		}
	}
}
