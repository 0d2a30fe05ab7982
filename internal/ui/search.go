package ui

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// searchResults is how many matches the search prompt lists.
const searchResults = 5

// searchGroups ranks the keys of the current bars against query, best first, and
// returns their indices into result.Groups.
func (m Model) searchGroups(query string) []int {
	if query == "" || len(m.result.Groups) == 0 {
		return nil
	}
	keys := make([]string, len(m.result.Groups))
	for i, g := range m.result.Groups {
		keys[i] = g.Key
	}

	ranks := fuzzy.RankFindNormalizedFold(query, keys)
	sort.Sort(ranks)

	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}

// jumpTo moves the cursor onto the bar of group gi.
func (m *Model) jumpTo(gi int) {
	for v, g := range m.visual {
		if g == gi {
			m.cursor = v
			m.ensureVisible()
			return
		}
	}
}
