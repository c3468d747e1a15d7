package search

import (
	"github.com/matst80/laser-finder/pkg/facet"
	"github.com/matst80/laser-finder/pkg/types"
)

// ApplySearch narrows the criteria filtered machines to those also present in
// the search results, compared by Key. Empty search results leave the
// filtered set as is; search never adds machines.
func ApplySearch(machines []*types.Machine, c *types.FilterCriteria, searchResults []*types.Machine) []*types.Machine {
	filtered := facet.FilterAll(machines, c)
	if len(searchResults) == 0 {
		return filtered
	}
	return Intersect(filtered, searchResults)
}

// NarrowBySearch filters machines and, when a search ran, keeps only the
// search results. A search that ran and found nothing narrows to nothing.
func NarrowBySearch(machines []*types.Machine, c *types.FilterCriteria, searchResults []*types.Machine, searched bool) []*types.Machine {
	filtered := facet.FilterAll(machines, c)
	if !searched {
		return filtered
	}
	return Intersect(filtered, searchResults)
}

// Intersect keeps the machines of base whose Key is present in other,
// preserving the order of base.
func Intersect(base []*types.Machine, other []*types.Machine) []*types.Machine {
	keys := make(map[string]struct{}, len(other))
	for _, m := range other {
		if m != nil {
			keys[m.Key()] = struct{}{}
		}
	}
	ret := make([]*types.Machine, 0, min(len(base), len(keys)))
	for _, m := range base {
		if m == nil {
			continue
		}
		if _, ok := keys[m.Key()]; ok {
			ret = append(ret, m)
		}
	}
	return ret
}
