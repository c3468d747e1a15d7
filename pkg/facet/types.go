package facet

import "github.com/matst80/laser-finder/pkg/types"

type KeyFieldResult struct {
	Values map[string]int `json:"values,omitempty"`
}

func (k *KeyFieldResult) HasValues() bool {
	return len(k.Values) > 0
}

func (k *KeyFieldResult) add(key string) {
	if key == "" {
		return
	}
	if k.Values == nil {
		k.Values = make(map[string]int)
	}
	k.Values[key]++
}

// NumberRange holds the extents of the valid values of a numeric field.
type NumberRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

func (r *NumberRange) add(n types.Number) {
	if !n.Valid {
		return
	}
	if r.Count == 0 || n.Value < r.Min {
		r.Min = n.Value
	}
	if r.Count == 0 || n.Value > r.Max {
		r.Max = n.Value
	}
	r.Count++
}
