// Package projection turns feed records into presentation-ready
// descriptions. Nothing here draws; renderers consume the records.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"airplane-watch/sleepwatch/internal/models/entities"
)

// MarkerClass is the visual weight of an aircraft marker.
type MarkerClass string

const (
	ClassCritical MarkerClass = "critical"
	ClassNotable  MarkerClass = "notable"
	ClassStandard MarkerClass = "standard"
)

// HeadOfStateTier is the highest VIP tier drawn as critical.
const HeadOfStateTier = 2

// Marker colors and sizes.
const (
	ColorAlert     = "#EF4444"
	ColorTechBlue  = "#0EA5E9"
	GlowAlert      = "rgba(239, 68, 68, 0.5)"
	GlowTechBlue   = "rgba(14, 165, 233, 0.5)"
	SizeEmphasized = 16
	SizeStandard   = 10
	ringFactor     = 3
)

// Ring is the pulsing emphasis ring drawn around critical markers.
// Diameter is the ring's width and height.
type Ring struct {
	Diameter int    `json:"diameter"`
	Color    string `json:"color"`
	Pulsing  bool   `json:"pulsing"`
}

// Marker describes how to draw one aircraft.
type Marker struct {
	ICAOHex      string      `json:"icao_hex"`
	Label        string      `json:"label"`
	Lat          float64     `json:"lat"`
	Lon          float64     `json:"lon"`
	Class        MarkerClass `json:"class"`
	Color        string      `json:"color"`
	Glow         string      `json:"glow"`
	Size         int         `json:"size"`
	Rotation     float64     `json:"rotation"`
	Ring         *Ring       `json:"ring,omitempty"`
	Country      CountryFlag `json:"country"`
	VIPBadge     string      `json:"vip_badge,omitempty"`
	AircraftType string      `json:"aircraft_type"`
	Operator     string      `json:"operator"`
	Altitude     float64     `json:"altitude"`
	GroundSpeed  float64     `json:"ground_speed"`
	RenderOrder  int         `json:"render_order"`
}

// Classify picks the marker class from VIP status and tier. Tier is
// ignored for non-VIP aircraft.
func Classify(isVIP bool, tier int) MarkerClass {
	switch {
	case isVIP && tier <= HeadOfStateTier:
		return ClassCritical
	case isVIP:
		return ClassNotable
	default:
		return ClassStandard
	}
}

// renderOrder ranks classes so critical markers draw on top.
func renderOrder(c MarkerClass) int {
	switch c {
	case ClassCritical:
		return 0
	case ClassNotable:
		return 1
	default:
		return 2
	}
}

// VIPBadge returns the badge text for the active aircraft list.
func VIPBadge(isVIP bool, tier int) string {
	if !isVIP {
		return ""
	}
	if tier <= HeadOfStateTier {
		return "VIP TIER 1"
	}
	return "VIP"
}

// MarkerBadge returns the map popup badge, which keeps the exact tier.
func MarkerBadge(isVIP bool, tier int) string {
	if !isVIP {
		return ""
	}
	return fmt.Sprintf("VIP TIER %d", tier)
}

// ProjectMarker maps one aircraft position to its marker.
func ProjectMarker(p entities.AircraftPosition) Marker {
	class := Classify(p.IsVIP, p.VIPTier)

	m := Marker{
		ICAOHex:      p.ICAOHex,
		Label:        displayLabel(p.Callsign, p.ICAOHex),
		Lat:          p.Lat,
		Lon:          p.Lon,
		Class:        class,
		Color:        ColorTechBlue,
		Glow:         GlowTechBlue,
		Size:         SizeStandard,
		Country:      Country(p.OwnerCountry),
		VIPBadge:     MarkerBadge(p.IsVIP, p.VIPTier),
		AircraftType: p.AircraftType,
		Operator:     p.OwnerOrg,
		Altitude:     p.Altitude,
		GroundSpeed:  p.GroundSpeed,
		RenderOrder:  renderOrder(class),
	}
	if p.Heading != nil {
		m.Rotation = *p.Heading
	}

	switch class {
	case ClassCritical:
		m.Color = ColorAlert
		m.Glow = GlowAlert
		m.Size = SizeEmphasized
		m.Ring = &Ring{Diameter: SizeEmphasized * ringFactor, Color: ColorAlert, Pulsing: true}
	case ClassNotable:
		m.Size = SizeEmphasized
	}
	return m
}

// ProjectMarkers projects every position and stable-sorts by render
// order, keeping feed order within a class.
func ProjectMarkers(positions []entities.AircraftPosition) []Marker {
	markers := make([]Marker, len(positions))
	for i, p := range positions {
		markers[i] = ProjectMarker(p)
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].RenderOrder < markers[j].RenderOrder
	})
	return markers
}

func displayLabel(callsign, icao string) string {
	if cs := strings.TrimSpace(callsign); cs != "" {
		return cs
	}
	return strings.ToUpper(icao)
}
