package facet

import (
	"strings"

	"github.com/matst80/laser-finder/pkg/types"
)

// Summary is what a comparison view needs to render its filter controls:
// value counts for the categorical fields and bounds for the sliders.
type Summary struct {
	Total        int                   `json:"total"`
	TopPicks     int                   `json:"topPicks"`
	LaserTypes   KeyFieldResult        `json:"laserTypes"`
	Features     map[types.Feature]int `json:"features"`
	Price        NumberRange           `json:"price"`
	Power        NumberRange           `json:"power"`
	Speed        NumberRange           `json:"speed"`
	PriceBuckets []BucketCount         `json:"priceBuckets"`
}

// laserTypeAliases folds persisted misspellings into the canonical value.
var laserTypeAliases = map[string]string{
	"infared": "infrared",
	"fibre":   "fiber",
}

func canonicalLaserType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if alias, ok := laserTypeAliases[s]; ok {
		return alias
	}
	return s
}

func Summarize(machines []*types.Machine) Summary {
	s := Summary{
		Features: make(map[types.Feature]int, len(types.AllFeatures)),
	}
	prices := Histogram{}
	for _, m := range machines {
		if m == nil {
			continue
		}
		s.Total++
		if m.IsTopPick() {
			s.TopPicks++
		}
		a := canonicalLaserType(m.LaserTypeA)
		b := canonicalLaserType(m.LaserTypeB)
		s.LaserTypes.add(a)
		if b != a {
			s.LaserTypes.add(b)
		}
		for _, f := range types.AllFeatures {
			if m.HasFeature(f) {
				s.Features[f]++
			}
		}
		s.Price.add(m.Price)
		prices.add(m.Price)
		s.Power.add(m.Power)
		s.Speed.add(m.Speed)
	}
	s.PriceBuckets = prices.Buckets()
	return s
}
