package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCriteriaIsNoop(t *testing.T) {
	assert.True(t, DefaultCriteria().IsNoop())
	var nilCriteria *FilterCriteria
	assert.True(t, nilCriteria.IsNoop())
}

func TestCriteriaNotNoop(t *testing.T) {
	c := DefaultCriteria()
	c.PriceRange = Range{0, 14999}
	assert.False(t, c.IsNoop())

	c = DefaultCriteria()
	c.IsTopPick = true
	assert.False(t, c.IsNoop())

	assert.False(t, DefaultCriteria().WithLaserTypes("CO2").IsNoop())
	assert.False(t, DefaultCriteria().WithFeatures(FeatureWifi).IsNoop())
}

func TestSanitize(t *testing.T) {
	c := DefaultCriteria().WithLaserTypes(" Fiber", "fiber", "", "CO2")
	c.WithFeatures("Focus", "camera", "autofocus", "bogus")
	assert.Equal(t, []string{"fiber", "co2"}, c.LaserTypes)
	assert.Equal(t, []Feature{FeatureAutoFocus, FeatureCamera}, c.Features)
	assert.True(t, DefaultCriteria().WithLaserTypes("  ").IsNoop())
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortSpeedDesc, ParseSortKey("speed-desc"))
	assert.Equal(t, SortPriceAsc, ParseSortKey(""))
	assert.Equal(t, SortPriceAsc, ParseSortKey("popular"))
}

func TestPreferencesSanitize(t *testing.T) {
	p := Preferences{View: "list", Sort: "bogus"}
	p.Sanitize()
	assert.Equal(t, DefaultPreferences(), p)
}
