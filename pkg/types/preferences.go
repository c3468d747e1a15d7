package types

type ViewMode string

const (
	ViewGrid  = ViewMode("grid")
	ViewTable = ViewMode("table")
)

// Storage keys for persisted preferences.
const (
	PreferenceViewKey = "view"
	PreferenceSortKey = "sortOption"
)

func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewTable {
		return ViewTable
	}
	return ViewGrid
}

type Preferences struct {
	View ViewMode `json:"view"`
	Sort SortKey  `json:"sortOption"`
}

func DefaultPreferences() Preferences {
	return Preferences{View: ViewGrid, Sort: DefaultSortKey}
}

func (p *Preferences) Sanitize() {
	p.View = ParseViewMode(string(p.View))
	p.Sort = ParseSortKey(string(p.Sort))
}
