package projection

import (
	"strings"
	"time"

	"airplane-watch/sleepwatch/internal/models/entities"
)

// GovMilBadge labels tracked aircraft without VIP status.
const GovMilBadge = "GOV/MIL"

// ActiveEntry is one row of the active aircraft table.
type ActiveEntry struct {
	ICAOHex      string      `json:"icao_hex"`
	Label        string      `json:"label"`
	Country      CountryFlag `json:"country"`
	AircraftType string      `json:"aircraft_type"`
	Operator     string      `json:"operator"`
	Badge        string      `json:"badge"`
	Class        MarkerClass `json:"class"`
	LastSeen     time.Time   `json:"last_seen"`
}

// ProjectActive maps the active aircraft feed to table rows in feed order.
func ProjectActive(aircraft []entities.ActiveAircraft) []ActiveEntry {
	out := make([]ActiveEntry, len(aircraft))
	for i, a := range aircraft {
		badge := VIPBadge(a.IsVIP, a.VIPTier)
		if badge == "" {
			badge = GovMilBadge
		}
		out[i] = ActiveEntry{
			ICAOHex:      strings.ToUpper(a.ICAOHex),
			Label:        displayLabel(a.Callsign, a.ICAOHex),
			Country:      Country(a.OwnerCountry),
			AircraftType: a.AircraftType,
			Operator:     a.OwnerOrg,
			Badge:        badge,
			Class:        Classify(a.IsVIP, a.VIPTier),
			LastSeen:     a.LastSeen,
		}
	}
	return out
}
