package types

import (
	"slices"
	"strings"
)

type Range [2]float64

func (r Range) Min() float64 { return r[0] }
func (r Range) Max() float64 { return r[1] }

func (r Range) Contains(v float64) bool {
	return v >= r[0] && v <= r[1]
}

var (
	DefaultPriceRange = Range{0, 15000}
	DefaultPowerRange = Range{0, 150}
	DefaultSpeedRange = Range{0, 2000}
)

type Feature string

const (
	FeatureCamera      = Feature("camera")
	FeatureWifi        = Feature("wifi")
	FeatureEnclosure   = Feature("enclosure")
	FeaturePassthrough = Feature("passthrough")
	FeatureAutoFocus   = Feature("autofocus")
)

var AllFeatures = []Feature{FeatureCamera, FeatureWifi, FeatureEnclosure, FeaturePassthrough, FeatureAutoFocus}

// ParseFeature accepts both the feature names and the source field names
// ("Camera", "Focus", ...).
func ParseFeature(s string) (Feature, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "camera":
		return FeatureCamera, true
	case "wifi":
		return FeatureWifi, true
	case "enclosure":
		return FeatureEnclosure, true
	case "passthrough":
		return FeaturePassthrough, true
	case "focus", "autofocus", "auto-focus":
		return FeatureAutoFocus, true
	}
	return "", false
}

type FilterCriteria struct {
	LaserTypes []string  `json:"laserTypes"`
	PriceRange Range     `json:"priceRange"`
	PowerRange Range     `json:"powerRange"`
	SpeedRange Range     `json:"speedRange"`
	Features   []Feature `json:"features"`
	IsTopPick  bool      `json:"isTopPick"`
}

func DefaultCriteria() *FilterCriteria {
	return &FilterCriteria{
		LaserTypes: []string{},
		PriceRange: DefaultPriceRange,
		PowerRange: DefaultPowerRange,
		SpeedRange: DefaultSpeedRange,
		Features:   []Feature{},
	}
}

// IsNoop reports whether the criteria equals the defaults. No-op criteria
// match every record without evaluating any field.
func (c *FilterCriteria) IsNoop() bool {
	if c == nil {
		return true
	}
	return len(c.LaserTypes) == 0 &&
		len(c.Features) == 0 &&
		!c.IsTopPick &&
		c.PriceRange == DefaultPriceRange &&
		c.PowerRange == DefaultPowerRange &&
		c.SpeedRange == DefaultSpeedRange
}

// Sanitize lower-cases and trims laser types and drops blanks and duplicates
// from both sets.
func (c *FilterCriteria) Sanitize() {
	types := make([]string, 0, len(c.LaserTypes))
	for _, t := range c.LaserTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	c.LaserTypes = types

	features := make([]Feature, 0, len(c.Features))
	for _, f := range c.Features {
		if parsed, ok := ParseFeature(string(f)); ok && !slices.Contains(features, parsed) {
			features = append(features, parsed)
		}
	}
	c.Features = features
}

func (c *FilterCriteria) WithLaserTypes(types ...string) *FilterCriteria {
	c.LaserTypes = append(c.LaserTypes, types...)
	c.Sanitize()
	return c
}

func (c *FilterCriteria) WithFeatures(features ...Feature) *FilterCriteria {
	c.Features = append(c.Features, features...)
	c.Sanitize()
	return c
}
