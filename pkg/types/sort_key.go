package types

type SortKey string

const (
	SortPriceAsc  = SortKey("price-asc")
	SortPriceDesc = SortKey("price-desc")
	SortPowerDesc = SortKey("power-desc")
	SortSpeedDesc = SortKey("speed-desc")
	SortNameAsc   = SortKey("name-asc")

	DefaultSortKey = SortPriceAsc
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortPriceAsc, SortPriceDesc, SortPowerDesc, SortSpeedDesc, SortNameAsc:
		return true
	}
	return false
}

// ParseSortKey falls back to price-asc for unknown or empty keys.
func ParseSortKey(s string) SortKey {
	k := SortKey(s)
	if k.IsValid() {
		return k
	}
	return DefaultSortKey
}
