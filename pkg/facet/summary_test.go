package facet

import (
	"testing"

	"github.com/matst80/laser-finder/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize(types.NormalizeAll(sample))
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.TopPicks)
	assert.Equal(t, map[string]int{"diode": 1, "infrared": 1, "galvo": 1, "co2": 1, "fiber": 1}, s.LaserTypes.Values)
	assert.Equal(t, 2, s.Features[types.FeatureCamera])
	assert.Equal(t, 1, s.Features[types.FeatureAutoFocus])
	assert.Equal(t, NumberRange{Min: 1199, Max: 6995, Count: 3}, s.Price)
	assert.Equal(t, NumberRange{Min: 10, Max: 60, Count: 4}, s.Power)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.False(t, s.LaserTypes.HasValues())
	assert.Equal(t, NumberRange{}, s.Speed)
}

func TestSummarizePriceBuckets(t *testing.T) {
	s := Summarize(types.NormalizeAll([]types.RawMachine{
		{"Price": "300"}, {"Price": "2000"}, {"Price": "2047"}, {"Price": "N/A"},
	}))
	assert.Equal(t, []BucketCount{
		{Min: 0, Max: 512, Count: 1},
		{Min: 1536, Max: 2048, Count: 2},
	}, s.PriceBuckets)
}
