package sorting

import (
	"cmp"
	"slices"

	"github.com/matst80/laser-finder/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type compareFunc func(a, b *types.Machine) int

func byPriceAsc(a, b *types.Machine) int {
	return cmp.Compare(a.Price.Value, b.Price.Value)
}

func byPriceDesc(a, b *types.Machine) int {
	return cmp.Compare(b.Price.Value, a.Price.Value)
}

func byPowerDesc(a, b *types.Machine) int {
	return cmp.Compare(b.Power.Value, a.Power.Value)
}

func bySpeedDesc(a, b *types.Machine) int {
	return cmp.Compare(b.Speed.Value, a.Speed.Value)
}

// byName compares names with English collation. A Collator keeps internal
// buffers so every sort gets its own.
func byName() compareFunc {
	c := collate.New(language.English)
	return func(a, b *types.Machine) int {
		return c.CompareString(a.Name, b.Name)
	}
}

func comparator(key types.SortKey) compareFunc {
	switch key {
	case types.SortPriceDesc:
		return byPriceDesc
	case types.SortPowerDesc:
		return byPowerDesc
	case types.SortSpeedDesc:
		return bySpeedDesc
	case types.SortNameAsc:
		return byName()
	}
	return byPriceAsc
}

// SortRecords returns a sorted copy of machines. The sort is stable so equal
// values keep their input order; unknown keys sort by ascending price. Nil
// entries are dropped.
func SortRecords(machines []*types.Machine, key types.SortKey) []*types.Machine {
	ret := make([]*types.Machine, 0, len(machines))
	for _, m := range machines {
		if m != nil {
			ret = append(ret, m)
		}
	}
	slices.SortStableFunc(ret, comparator(key))
	return ret
}
