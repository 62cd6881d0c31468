package entities

import "time"

// OwnerProfile describes who operates a tracked airframe.
type OwnerProfile struct {
	ICAOHex      string `json:"icao_hex"`
	OwnerCountry string `json:"owner_country"`
	OwnerOrg     string `json:"owner_org"`
	AircraftType string `json:"aircraft_type"`
	IsVIP        bool   `json:"is_vip"`
	// VIPTier ranks the owner; lower is higher profile, <=2 is head of state.
	VIPTier int `json:"vip_tier"`
}

// AircraftPosition is one aircraft's latest reported position joined with
// a denormalized copy of its owner profile. ICAOHex is promoted from the
// profile.
type AircraftPosition struct {
	OwnerProfile

	Callsign    string    `json:"callsign"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Altitude    float64   `json:"altitude"`
	GroundSpeed float64   `json:"ground_speed"`
	Heading     *float64  `json:"heading"`
	LastUpdate  time.Time `json:"last_update"`
}

// ActiveAircraft is a distinct aircraft seen within the activity window.
type ActiveAircraft struct {
	OwnerProfile

	Callsign string    `json:"callsign"`
	LastSeen time.Time `json:"last_seen"`
}
