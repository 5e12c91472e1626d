package tracking

import (
	"testing"

	"github.com/windowseat/windowseat/pkg/opensky"
)

func b(v bool) *bool { return &v }

func TestResolveAltitude(t *testing.T) {
	tests := []struct {
		name     string
		geo      *float64
		baro     *float64
		expected *float64
	}{
		{"Geometric preferred", f(5000), f(4800), f(5000)},
		{"Barometric fallback", nil, f(3000), f(3000)},
		{"Neither present", nil, nil, nil},
		{"Geometric zero still wins", f(0), f(100), f(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAltitude(opensky.StateVector{GeoAltitude: tt.geo, BaroAltitude: tt.baro})
			switch {
			case tt.expected == nil && got != nil:
				t.Errorf("Expected nil, got %v", *got)
			case tt.expected != nil && got == nil:
				t.Errorf("Expected %v, got nil", *tt.expected)
			case tt.expected != nil && *got != *tt.expected:
				t.Errorf("Expected %v, got %v", *tt.expected, *got)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(nil); got != TimeUnavailable {
		t.Errorf("Expected %q for nil timestamp, got %q", TimeUnavailable, got)
	}

	// 2023-11-14 22:13:20 UTC
	if got := FormatTimestamp(i64(1700000000)); got != "2023-11-14 22:13:20 UTC" {
		t.Errorf("Expected formatted UTC string, got %q", got)
	}
}

func TestProject(t *testing.T) {
	raw := opensky.StateVector{
		ICAO24:        "4952ca",
		Callsign:      s(" tap1079 "),
		OriginCountry: "Portugal",
		TimePosition:  i64(1700000000),
		LastContact:   i64(1700000002),
		Longitude:     f(-9.13),
		Latitude:      f(38.77),
		BaroAltitude:  f(4800),
		GeoAltitude:   f(5000),
		OnGround:      b(false),
		Velocity:      f(126.8),
		TrueTrack:     f(38.2),
		VerticalRate:  f(5.2),
	}

	got := Project(raw)

	if got.Callsign != "TAP1079" {
		t.Errorf("Expected normalized callsign TAP1079, got %q", got.Callsign)
	}
	if got.Altitude == nil || *got.Altitude != 5000 {
		t.Errorf("Expected resolved altitude 5000, got %v", got.Altitude)
	}
	if got.RoughLocation != "near western Europe" {
		t.Errorf("Expected western Europe box, got %q", got.RoughLocation)
	}
	if got.CommentText != ViewComment(f(5000)) {
		t.Errorf("Unexpected comment %q", got.CommentText)
	}
	if got.TimePosition != "2023-11-14 22:13:20 UTC" {
		t.Errorf("Unexpected time_position %q", got.TimePosition)
	}
	if got.LastContact != "2023-11-14 22:13:22 UTC" {
		t.Errorf("Unexpected last_contact %q", got.LastContact)
	}
	if got.OnGround == nil || *got.OnGround {
		t.Errorf("Expected on_ground false, got %v", got.OnGround)
	}
}

func TestProjectPreservesUnknownOnGround(t *testing.T) {
	got := Project(opensky.StateVector{ICAO24: "ab1644"})
	if got.OnGround != nil {
		t.Errorf("Expected unknown on_ground to stay nil, got %v", *got.OnGround)
	}
	if got.TimePosition != TimeUnavailable || got.LastContact != TimeUnavailable {
		t.Errorf("Expected N/A timestamps, got %q / %q", got.TimePosition, got.LastContact)
	}
	if got.RoughLocation != UnknownLocation {
		t.Errorf("Expected unknown location, got %q", got.RoughLocation)
	}
	if got.CommentText != CommentUnavailable {
		t.Errorf("Expected unavailable comment, got %q", got.CommentText)
	}
}

func TestSummarize(t *testing.T) {
	raw := opensky.StateVector{
		ICAO24:        "4952ca",
		Callsign:      s("TAP1079 "),
		OriginCountry: "Portugal",
		Longitude:     f(139.7),
		Latitude:      f(35.6),
		OnGround:      b(false),
		LastContact:   i64(1700000000),
	}

	got := Summarize(raw)
	if got.Callsign != "TAP1079" {
		t.Errorf("Expected TAP1079, got %q", got.Callsign)
	}
	if got.RoughLocation != "near Japan" {
		t.Errorf("Expected near Japan, got %q", got.RoughLocation)
	}
	if got.LastContact != "2023-11-14 22:13:20 UTC" {
		t.Errorf("Unexpected last_contact %q", got.LastContact)
	}
}
