package facet

import (
	"testing"

	"github.com/matst80/laser-finder/pkg/types"
	"github.com/stretchr/testify/assert"
)

func machine(raw types.RawMachine) *types.Machine {
	return types.Normalize(raw)
}

func criteria(laserTypes ...string) *types.FilterCriteria {
	return types.DefaultCriteria().WithLaserTypes(laserTypes...)
}

var sample = []types.RawMachine{
	{"id": "1", "Machine Name": "xTool F1", "Laser Type A": "Diode", "Laser Type B": "Infared", "Price": "1199", "Laser Power A": "10W", "Speed": "4000", "Camera": "Yes", "Focus": "Auto", "Award": "Best Portable"},
	{"id": "2", "Machine Name": "OMTech Fiber 30W", "Laser Type A": "Galvo", "Price": 2999.0, "Laser Power A": "30W", "Speed": "1500"},
	{"id": "3", "Machine Name": "Glowforge Pro", "Laser Category": "Desktop CO2", "Laser Type A": "CO2", "Price": "6995", "Laser Power A": "45W", "Speed": "600", "Passthrough": "Yes", "Enclosure": "Yes", "Camera": "Yes", "Wifi": "Yes"},
	{"id": "4", "Machine Name": "Commarker B4 MOPA", "Laser Type A": "Fiber", "Price": "N/A", "Laser Power A": "60W"},
	{"Machine Name": "Mystery", "Price": nil, "Laser Power A": []any{1}, "Speed": map[string]any{"x": 1}, "Award": false},
}

func TestNoopMatchesEverything(t *testing.T) {
	for _, raw := range sample {
		assert.True(t, Matches(machine(raw), types.DefaultCriteria()), "%v", raw["Machine Name"])
	}
	assert.True(t, Matches(nil, nil))
}

func TestTopPickRequiresAward(t *testing.T) {
	c := types.DefaultCriteria()
	c.IsTopPick = true
	assert.True(t, Matches(machine(sample[0]), c))
	for _, raw := range sample[1:] {
		assert.False(t, Matches(machine(raw), c), "%v", raw["Machine Name"])
	}
}

func TestFiberMatchesByName(t *testing.T) {
	m := machine(types.RawMachine{"Machine Name": "Monport GPro FIBER", "Laser Type A": "CO2", "Laser Type B": "Diode", "Price": "3000"})
	assert.True(t, Matches(m, criteria("fiber")))
	assert.True(t, Matches(m, criteria("co2", "fiber")))

	fibre := machine(types.RawMachine{"Machine Name": "X", "Machine Category": "Fibre marker"})
	assert.True(t, Matches(fibre, criteria("Fiber")))
}

func TestInfraredAcceptsMisspelling(t *testing.T) {
	m := machine(types.RawMachine{"Machine Name": "Some Laser", "Laser Type A": "infared"})
	assert.True(t, Matches(m, criteria("infrared")))
	assert.True(t, Matches(m, criteria("infared")))

	byName := machine(types.RawMachine{"Machine Name": "Infrared Marker 2W"})
	assert.True(t, Matches(byName, criteria("infrared")))

	assert.False(t, Matches(machine(sample[2]), criteria("infrared")))
}

func TestMopa(t *testing.T) {
	assert.True(t, Matches(machine(sample[3]), criteria("mopa")))
	assert.True(t, Matches(machine(types.RawMachine{"Machine Name": "Y", "Laser Category": "MOPA fiber"}), criteria("mopa")))

	series := machine(types.RawMachine{"Machine Name": "ABC M-Series Pro", "Laser Type A": "", "Laser Type B": "", "Laser Category": "", "Machine Category": ""})
	c := &types.FilterCriteria{
		LaserTypes: []string{"mopa"},
		PriceRange: types.Range{0, 15000},
		PowerRange: types.Range{0, 150},
		SpeedRange: types.Range{0, 2000},
		Features:   []types.Feature{},
	}
	assert.False(t, Matches(series, c))
}

func TestOtherTypesAreStrict(t *testing.T) {
	glowforge := machine(sample[2])
	assert.True(t, Matches(glowforge, criteria("co2")))
	assert.True(t, Matches(glowforge, criteria("desktop")), "substring of laser category")

	named := machine(types.RawMachine{"Machine Name": "Diode Master", "Machine Category": "diode"})
	assert.False(t, Matches(named, criteria("diode")), "name and machine category are not consulted")

	partialType := machine(types.RawMachine{"Laser Type A": "Blue Diode"})
	assert.False(t, Matches(partialType, criteria("diode")), "type fields need exact equality")
}

func TestRanges(t *testing.T) {
	c := types.DefaultCriteria()
	c.PriceRange = types.Range{1000, 3000}
	got := FilterAll(types.NormalizeAll(sample), c)
	assert.Equal(t, []string{"1", "2"}, keys(got))

	c = types.DefaultCriteria()
	c.PowerRange = types.Range{0, 40}
	got = FilterAll(types.NormalizeAll(sample), c)
	assert.Equal(t, []string{"1", "2", "Mystery"}, keys(got), "unparsable power counts as zero")

	c = types.DefaultCriteria()
	c.SpeedRange = types.Range{500, 2000}
	got = FilterAll(types.NormalizeAll(sample), c)
	assert.Equal(t, []string{"2", "3"}, keys(got))

	c = types.DefaultCriteria()
	c.PriceRange = types.Range{1, 15000}
	for _, m := range FilterAll(types.NormalizeAll(sample), c) {
		assert.True(t, m.Price.Valid)
	}
}

func TestFeaturesAreConjunctive(t *testing.T) {
	c := types.DefaultCriteria().WithFeatures(types.FeatureCamera)
	assert.Equal(t, []string{"1", "3"}, keys(FilterAll(types.NormalizeAll(sample), c)))

	c.WithFeatures(types.FeatureWifi)
	assert.Equal(t, []string{"3"}, keys(FilterAll(types.NormalizeAll(sample), c)))

	c = types.DefaultCriteria().WithFeatures(types.FeatureAutoFocus)
	assert.Equal(t, []string{"1"}, keys(FilterAll(types.NormalizeAll(sample), c)))
}

func TestFilterAllIsStableSubset(t *testing.T) {
	all := types.NormalizeAll(sample)
	all = append(all, nil)
	c := criteria("fiber", "co2", "mopa")
	got := FilterAll(all, c)
	assert.LessOrEqual(t, len(got), len(all))
	assert.Equal(t, []string{"2", "3", "4"}, keys(got))
}

func keys(ms []*types.Machine) []string {
	ret := make([]string, 0, len(ms))
	for _, m := range ms {
		ret = append(ret, m.Key())
	}
	return ret
}
