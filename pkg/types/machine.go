package types

import (
	"strconv"
	"strings"
)

// Field names as they appear in the machines table.
const (
	FieldId              = "id"
	FieldName            = "Machine Name"
	FieldCompany         = "Company"
	FieldPrice           = "Price"
	FieldLaserCategory   = "Laser Category"
	FieldMachineCategory = "Machine Category"
	FieldLaserTypeA      = "Laser Type A"
	FieldLaserTypeB      = "Laser Type B"
	FieldLaserPowerA     = "Laser Power A"
	FieldSpeed           = "Speed"
	FieldCamera          = "Camera"
	FieldWifi            = "Wifi"
	FieldEnclosure       = "Enclosure"
	FieldPassthrough     = "Passthrough"
	FieldFocus           = "Focus"
	FieldAward           = "Award"
)

// RawMachine is a record exactly as delivered by the backing store. Nothing
// about its fields is trusted.
type RawMachine map[string]any

// Machine is the normalized form of a RawMachine. All parsing happens once in
// Normalize so filtering and sorting only compare typed values.
type Machine struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	Company         string `json:"company"`
	Price           Number `json:"price"`
	LaserCategory   string `json:"laserCategory"`
	MachineCategory string `json:"machineCategory"`
	LaserTypeA      string `json:"laserTypeA"`
	LaserTypeB      string `json:"laserTypeB"`
	Power           Number `json:"power"`
	Speed           Number `json:"speed"`
	Camera          bool   `json:"camera"`
	Wifi            bool   `json:"wifi"`
	Enclosure       bool   `json:"enclosure"`
	Passthrough     bool   `json:"passthrough"`
	Focus           string `json:"focus"`
	AutoFocus       bool   `json:"autoFocus"`
	Award           string `json:"award,omitempty"`
	TopPick         bool   `json:"topPick"`

	Raw RawMachine `json:"-"`
}

// Key is the identity used when intersecting result sets: the id, or the
// machine name when the record has no id.
func (m *Machine) Key() string {
	if m.Id != "" {
		return m.Id
	}
	return m.Name
}

func (m *Machine) IsTopPick() bool {
	return m.TopPick
}

func (m *Machine) HasFeature(f Feature) bool {
	switch f {
	case FeatureCamera:
		return m.Camera
	case FeatureWifi:
		return m.Wifi
	case FeatureEnclosure:
		return m.Enclosure
	case FeaturePassthrough:
		return m.Passthrough
	case FeatureAutoFocus:
		return m.AutoFocus
	}
	return false
}

// ToStringList returns the text fields used for free text indexing, name first.
func (m *Machine) ToStringList() []string {
	return []string{m.Name, m.Company, m.LaserCategory, m.MachineCategory, m.LaserTypeA, m.LaserTypeB}
}

func Normalize(raw RawMachine) *Machine {
	if raw == nil {
		raw = RawMachine{}
	}
	focus := raw.text(FieldFocus)
	return &Machine{
		Id:              raw.identity(),
		Name:            raw.text(FieldName),
		Company:         raw.text(FieldCompany),
		Price:           ParsePrice(raw[FieldPrice]),
		LaserCategory:   raw.text(FieldLaserCategory),
		MachineCategory: raw.text(FieldMachineCategory),
		LaserTypeA:      raw.text(FieldLaserTypeA),
		LaserTypeB:      raw.text(FieldLaserTypeB),
		Power:           ParseMeasure(raw[FieldLaserPowerA]),
		Speed:           ParseMeasure(raw[FieldSpeed]),
		Camera:          raw.yes(FieldCamera),
		Wifi:            raw.yes(FieldWifi),
		Enclosure:       raw.yes(FieldEnclosure),
		Passthrough:     raw.yes(FieldPassthrough),
		Focus:           focus,
		AutoFocus:       focus == "Auto",
		Award:           raw.text(FieldAward),
		TopPick:         truthy(raw[FieldAward]),
		Raw:             raw,
	}
}

func NormalizeAll(raws []RawMachine) []*Machine {
	ret := make([]*Machine, 0, len(raws))
	for _, raw := range raws {
		ret = append(ret, Normalize(raw))
	}
	return ret
}

func (r RawMachine) text(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

func (r RawMachine) yes(key string) bool {
	return r.text(key) == "Yes"
}

func (r RawMachine) identity() string {
	switch id := r[FieldId].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case interface{ String() string }:
		return id.String()
	}
	return ""
}

// truthy follows the loose truthiness the source data was written against:
// blank strings, false, zero and null are absent, everything else is present.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return true
}
