package facet

import (
	"strings"

	"github.com/matst80/laser-finder/pkg/types"
)

// Matches reports whether a machine satisfies the criteria. Sub checks are
// evaluated in a fixed order and the first failing one ends the evaluation.
// Missing or malformed fields fail their own check and never panic.
func Matches(m *types.Machine, c *types.FilterCriteria) bool {
	if c.IsNoop() {
		return true
	}
	if m == nil {
		return false
	}
	if c.IsTopPick && !m.IsTopPick() {
		return false
	}
	if len(c.LaserTypes) > 0 && !matchesAnyLaserType(m, c.LaserTypes) {
		return false
	}
	if !m.Price.InRange(c.PriceRange) {
		return false
	}
	if !m.Power.InRange(c.PowerRange) {
		return false
	}
	if !m.Speed.InRange(c.SpeedRange) {
		return false
	}
	for _, f := range c.Features {
		if !m.HasFeature(f) {
			return false
		}
	}
	return true
}

// FilterAll returns the machines matching the criteria in input order.
func FilterAll(machines []*types.Machine, c *types.FilterCriteria) []*types.Machine {
	ret := make([]*types.Machine, 0, len(machines))
	for _, m := range machines {
		if Matches(m, c) {
			ret = append(ret, m)
		}
	}
	return ret
}

func matchesAnyLaserType(m *types.Machine, laserTypes []string) bool {
	fields := newLaserFields(m)
	for _, t := range laserTypes {
		if matchesLaserType(fields, t) {
			return true
		}
	}
	return false
}

// laserFields holds the lower-cased, trimmed fields laser type matching reads.
type laserFields struct {
	typeA           string
	typeB           string
	laserCategory   string
	machineCategory string
	name            string
}

func newLaserFields(m *types.Machine) laserFields {
	clean := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return laserFields{
		typeA:           clean(m.LaserTypeA),
		typeB:           clean(m.LaserTypeB),
		laserCategory:   clean(m.LaserCategory),
		machineCategory: clean(m.MachineCategory),
		name:            clean(m.Name),
	}
}

func (f laserFields) typeEquals(t string) bool {
	return f.typeA == t || f.typeB == t || f.laserCategory == t
}

// typeMatcher is a broadened rule for a laser type that is tagged
// inconsistently in the source data.
type typeMatcher func(f laserFields) bool

var broadMatchers = map[string]typeMatcher{
	"fiber":    matchFiber,
	"infrared": matchInfrared,
	"infared":  matchInfrared,
	"mopa":     matchMopa,
}

// matchesLaserType applies the rule for one requested type. Fiber, infrared
// and mopa get substring and name matching, every other type only matches
// exactly or as a substring of the laser category.
func matchesLaserType(f laserFields, laserType string) bool {
	t := strings.ToLower(strings.TrimSpace(laserType))
	if t == "" {
		return false
	}
	if f.typeEquals(t) {
		return true
	}
	if matcher, ok := broadMatchers[t]; ok {
		return matcher(f)
	}
	return strings.Contains(f.laserCategory, t)
}

func containsAny(s string, subs ...string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func matchFiber(f laserFields) bool {
	return containsAny(f.laserCategory, "fiber", "fibre") ||
		containsAny(f.machineCategory, "fiber", "fibre") ||
		containsAny(f.name, "fiber", "fibre")
}

func matchInfrared(f laserFields) bool {
	return containsAny(f.typeA, "infrared", "infared") ||
		containsAny(f.typeB, "infrared", "infared") ||
		containsAny(f.laserCategory, "infrared", "infared") ||
		containsAny(f.name, "infrared", "infared")
}

func matchMopa(f laserFields) bool {
	return containsAny(f.typeA, "mopa") ||
		containsAny(f.typeB, "mopa") ||
		containsAny(f.laserCategory, "mopa") ||
		containsAny(f.machineCategory, "mopa") ||
		containsAny(f.name, "mopa")
}
