package pipeline

import "sort"

// Order sorts groups by displayed mean, highest first. Equal means keep their
// aggregation order. The sorting toggle does not change this order.
func Order(groups []*Group) []*Group {
	sorted := make([]*Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rounded > sorted[j].Rounded
	})
	return sorted
}
