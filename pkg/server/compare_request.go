package server

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/laser-finder/pkg/types"
)

var ErrInvalidRange = errors.New("invalid range")

// CompareRequest is the query string of /api/compare and /api/facets.
// Ranges are written min-max, e.g. price=500-2000.
type CompareRequest struct {
	LaserTypes []string `json:"laserTypes" schema:"type"`
	Price      string   `json:"price" schema:"price"`
	Power      string   `json:"power" schema:"power"`
	Speed      string   `json:"speed" schema:"speed"`
	Features   []string `json:"features" schema:"feature"`
	TopPick    bool     `json:"top" schema:"top"`
	Sort       string   `json:"sort" schema:"sort"`
	Query      string   `json:"query" schema:"q"`
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func DecodeCompareRequest(query url.Values) (*CompareRequest, error) {
	req := &CompareRequest{}
	if err := decoder.Decode(req, query); err != nil {
		return nil, err
	}
	req.Query = strings.TrimSpace(req.Query)
	return req, nil
}

// ParseRange reads "min-max". An empty value gives the default range.
func ParseRange(value string, def types.Range) (types.Range, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	var lo, hi float64
	if _, err := fmt.Sscanf(value, "%f-%f", &lo, &hi); err != nil {
		return def, fmt.Errorf("%w %q: %v", ErrInvalidRange, value, err)
	}
	if lo > hi {
		return def, fmt.Errorf("%w %q: min above max", ErrInvalidRange, value)
	}
	return types.Range{lo, hi}, nil
}

// Criteria builds sanitized filter criteria. Unknown features are dropped.
func (r *CompareRequest) Criteria() (*types.FilterCriteria, error) {
	c := types.DefaultCriteria()
	var err error
	if c.PriceRange, err = ParseRange(r.Price, types.DefaultPriceRange); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	if c.PowerRange, err = ParseRange(r.Power, types.DefaultPowerRange); err != nil {
		return nil, fmt.Errorf("power: %w", err)
	}
	if c.SpeedRange, err = ParseRange(r.Speed, types.DefaultSpeedRange); err != nil {
		return nil, fmt.Errorf("speed: %w", err)
	}
	c.IsTopPick = r.TopPick
	c.LaserTypes = append(c.LaserTypes, r.LaserTypes...)
	for _, f := range r.Features {
		c.Features = append(c.Features, types.Feature(f))
	}
	c.Sanitize()
	return c, nil
}
