package tracking

import (
	"time"

	"github.com/windowseat/windowseat/pkg/opensky"
)

// TimeUnavailable is the sentinel rendered for absent timestamps.
const TimeUnavailable = "N/A"

// TrackedState is the full presentation record for one aircraft,
// recomputed from a raw state vector on every request and never mutated
// after construction. on_ground stays null when the feed omitted it
// rather than defaulting to false.
type TrackedState struct {
	ICAO24        string   `json:"icao24"`
	Callsign      string   `json:"callsign"`
	OriginCountry string   `json:"origin_country"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	BaroAltitude  *float64 `json:"baro_altitude"`
	GeoAltitude   *float64 `json:"geo_altitude"`
	Altitude      *float64 `json:"altitude"`
	Velocity      *float64 `json:"velocity"`
	Heading       *float64 `json:"heading"`
	VerticalRate  *float64 `json:"vertical_rate"`
	OnGround      *bool    `json:"on_ground"`
	TimePosition  string   `json:"time_position"`
	LastContact   string   `json:"last_contact"`
	RoughLocation string   `json:"rough_location"`
	CommentText   string   `json:"comment_text"`
}

// Candidate is the lean list-view record served for each entry of the
// candidate list.
type Candidate struct {
	ICAO24        string   `json:"icao24"`
	Callsign      string   `json:"callsign"`
	OriginCountry string   `json:"origin_country"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	OnGround      *bool    `json:"on_ground"`
	RoughLocation string   `json:"rough_location"`
	LastContact   string   `json:"last_contact"`
}

// ResolveAltitude picks the altitude to present: geometric when
// available, barometric otherwise, nil when neither is reported.
func ResolveAltitude(sv opensky.StateVector) *float64 {
	if sv.GeoAltitude != nil {
		return sv.GeoAltitude
	}
	return sv.BaroAltitude
}

// FormatTimestamp renders a Unix timestamp as "YYYY-MM-DD HH:MM:SS UTC",
// or the TimeUnavailable sentinel for a nil timestamp.
func FormatTimestamp(ts *int64) string {
	if ts == nil {
		return TimeUnavailable
	}
	return time.Unix(*ts, 0).UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// Project converts a raw state vector into its full presentation record,
// attaching the region label and the view comment.
func Project(sv opensky.StateVector) TrackedState {
	alt := ResolveAltitude(sv)
	return TrackedState{
		ICAO24:        sv.ICAO24,
		Callsign:      NormalizeCallsign(sv.Callsign),
		OriginCountry: sv.OriginCountry,
		Latitude:      sv.Latitude,
		Longitude:     sv.Longitude,
		BaroAltitude:  sv.BaroAltitude,
		GeoAltitude:   sv.GeoAltitude,
		Altitude:      alt,
		Velocity:      sv.Velocity,
		Heading:       sv.TrueTrack,
		VerticalRate:  sv.VerticalRate,
		OnGround:      sv.OnGround,
		TimePosition:  FormatTimestamp(sv.TimePosition),
		LastContact:   FormatTimestamp(sv.LastContact),
		RoughLocation: RoughLocation(sv.Latitude, sv.Longitude, sv.OriginCountry),
		CommentText:   ViewComment(alt),
	}
}

// Summarize converts a raw state vector into its list-view record.
func Summarize(sv opensky.StateVector) Candidate {
	return Candidate{
		ICAO24:        sv.ICAO24,
		Callsign:      NormalizeCallsign(sv.Callsign),
		OriginCountry: sv.OriginCountry,
		Latitude:      sv.Latitude,
		Longitude:     sv.Longitude,
		OnGround:      sv.OnGround,
		RoughLocation: RoughLocation(sv.Latitude, sv.Longitude, sv.OriginCountry),
		LastContact:   FormatTimestamp(sv.LastContact),
	}
}
