// Package opensky provides a client for the OpenSky Network REST API.
// It fetches the /states/all snapshot of currently broadcasting aircraft
// and decodes the positional state-vector rows into typed records.
package opensky

import (
	"encoding/json"
	"fmt"
)

// StateVector is one row of the /states/all feed. The upstream encoding is
// a positional JSON array with a fixed field order; index 13 is geometric
// altitude. Fields the feed may omit are pointers so that "absent" and
// "zero" stay distinguishable.
type StateVector struct {
	// ICAO24 is the 24-bit transponder address as a lowercase hex string.
	// This is the stable identity of a row; callsigns are neither unique
	// nor guaranteed present.
	ICAO24 string

	// Callsign is the flight identifier, often blank for general aviation.
	// The feed pads it with trailing whitespace.
	Callsign *string

	// OriginCountry is the country of registration.
	OriginCountry string

	// TimePosition is the Unix timestamp of the last position report.
	TimePosition *int64

	// LastContact is the Unix timestamp of the last received message.
	LastContact *int64

	// Longitude and Latitude are WGS84 decimal degrees.
	Longitude *float64
	Latitude  *float64

	// BaroAltitude is barometric altitude in meters.
	BaroAltitude *float64

	// OnGround reports whether the aircraft is on the surface.
	OnGround *bool

	// Velocity is ground speed in m/s.
	Velocity *float64

	// TrueTrack is the ground track in decimal degrees (0 = north).
	TrueTrack *float64

	// VerticalRate is climb/descent rate in m/s.
	VerticalRate *float64

	// GeoAltitude is geometric (GPS) altitude in meters.
	GeoAltitude *float64

	// Squawk is the assigned transponder code.
	Squawk *string
}

// StatesResponse is the JSON payload returned by /states/all.
type StatesResponse struct {
	Time   int64
	States []StateVector
}

// stateRowLen is the minimum number of positional elements a state row
// must carry; shorter rows are dropped during decoding.
const stateRowLen = 17

// wire indexes into a positional state row.
const (
	idxICAO24 = iota
	idxCallsign
	idxOriginCountry
	idxTimePosition
	idxLastContact
	idxLongitude
	idxLatitude
	idxBaroAltitude
	idxOnGround
	idxVelocity
	idxTrueTrack
	idxVerticalRate
	idxSensors
	idxGeoAltitude
	idxSquawk
	idxSpi
	idxPositionSource
)

type statesWire struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

// UnmarshalJSON decodes the positional /states/all payload. Rows shorter
// than the documented field count are skipped rather than failing the
// whole snapshot; a null "states" array decodes to an empty slice.
func (r *StatesResponse) UnmarshalJSON(data []byte) error {
	var wire statesWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decoding states payload: %w", err)
	}

	r.Time = wire.Time
	r.States = make([]StateVector, 0, len(wire.States))
	for _, row := range wire.States {
		if len(row) < stateRowLen {
			continue
		}
		r.States = append(r.States, parseStateRow(row))
	}
	return nil
}

// MarshalJSON re-encodes the payload in the upstream positional shape so
// that saved snapshots remain interchangeable with live responses.
func (r StatesResponse) MarshalJSON() ([]byte, error) {
	wire := statesWire{
		Time:   r.Time,
		States: make([][]interface{}, 0, len(r.States)),
	}
	for _, sv := range r.States {
		row := make([]interface{}, stateRowLen)
		row[idxICAO24] = sv.ICAO24
		row[idxCallsign] = strOrNil(sv.Callsign)
		row[idxOriginCountry] = sv.OriginCountry
		row[idxTimePosition] = intOrNil(sv.TimePosition)
		row[idxLastContact] = intOrNil(sv.LastContact)
		row[idxLongitude] = floatOrNil(sv.Longitude)
		row[idxLatitude] = floatOrNil(sv.Latitude)
		row[idxBaroAltitude] = floatOrNil(sv.BaroAltitude)
		row[idxOnGround] = boolOrNil(sv.OnGround)
		row[idxVelocity] = floatOrNil(sv.Velocity)
		row[idxTrueTrack] = floatOrNil(sv.TrueTrack)
		row[idxVerticalRate] = floatOrNil(sv.VerticalRate)
		row[idxSensors] = nil
		row[idxGeoAltitude] = floatOrNil(sv.GeoAltitude)
		row[idxSquawk] = strOrNil(sv.Squawk)
		row[idxSpi] = false
		row[idxPositionSource] = float64(0)
		wire.States = append(wire.States, row)
	}
	return json.Marshal(wire)
}

func parseStateRow(row []interface{}) StateVector {
	sv := StateVector{
		ICAO24:        stringVal(row[idxICAO24]),
		Callsign:      stringPtr(row[idxCallsign]),
		OriginCountry: stringVal(row[idxOriginCountry]),
		TimePosition:  intPtr(row[idxTimePosition]),
		LastContact:   intPtr(row[idxLastContact]),
		Longitude:     floatPtr(row[idxLongitude]),
		Latitude:      floatPtr(row[idxLatitude]),
		BaroAltitude:  floatPtr(row[idxBaroAltitude]),
		OnGround:      boolPtr(row[idxOnGround]),
		Velocity:      floatPtr(row[idxVelocity]),
		TrueTrack:     floatPtr(row[idxTrueTrack]),
		VerticalRate:  floatPtr(row[idxVerticalRate]),
		GeoAltitude:   floatPtr(row[idxGeoAltitude]),
		Squawk:        stringPtr(row[idxSquawk]),
	}
	return sv
}

func stringVal(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func stringPtr(v interface{}) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func floatPtr(v interface{}) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func intPtr(v interface{}) *int64 {
	// JSON numbers arrive as float64.
	if f, ok := v.(float64); ok {
		n := int64(f)
		return &n
	}
	return nil
}

func boolPtr(v interface{}) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

func strOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intOrNil(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func boolOrNil(p *bool) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
