// Package tracking implements the state-resolution and presentation
// pipeline: it filters the raw state-vector feed into a candidate list,
// looks up single aircraft by identifier, and derives the two
// presentation strings (rough region label, altitude-banded view
// comment) attached to every projected state.
package tracking

import "fmt"

// UnknownLocation is returned when a state vector has no usable position.
const UnknownLocation = "location unknown"

// RegionBox is a named bounding box with closed latitude and longitude
// intervals. Boxes are checked in table order and the first match wins;
// overlaps are resolved purely by position in the table.
type RegionBox struct {
	Name   string
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Contains reports whether the point lies inside the box, boundaries
// included.
func (b RegionBox) Contains(lat, lon float64) bool {
	return b.LatMin <= lat && lat <= b.LatMax && b.LonMin <= lon && lon <= b.LonMax
}

// regionBoxes is the ordered lookup table for named regions. More
// specific boxes must precede the broader ones they overlap (e.g. Korea
// sits inside the East China box's longitude span).
var regionBoxes = []RegionBox{
	// Japan and surroundings
	{"near Japan", 20.0, 50.0, 120.0, 150.0},
	{"near Korea", 33.0, 39.5, 124.0, 132.0},
	{"near eastern China", 20.0, 42.0, 105.0, 125.0},

	// Europe
	{"near Germany", 47.0, 56.0, 5.0, 16.0},
	{"near France", 42.0, 51.5, -5.0, 8.0},
	{"near the United Kingdom", 49.0, 61.0, -10.0, 2.0},
	{"near western Europe", 35.0, 70.0, -10.0, 30.0},

	// North America
	{"near the North American west coast", 30.0, 55.0, -135.0, -110.0},
	{"near central North America", 30.0, 55.0, -110.0, -85.0},
	{"near the North American east coast", 30.0, 50.0, -85.0, -60.0},

	// Elsewhere
	{"near the Middle East", 15.0, 40.0, 30.0, 60.0},
	{"near Southeast Asia", -10.0, 25.0, 95.0, 130.0},
	{"near Australia", -45.0, -10.0, 110.0, 155.0},
}

// lonBand is a longitude-banded ocean/continent fallback, split by the
// hemisphere sign of latitude. Bands are scanned in order; the Pacific
// band wraps the antimeridian and is handled separately.
type lonBand struct {
	LonMin    float64
	LonMax    float64
	ClosedMax bool
	North     string
	South     string
}

// Longitudes in (150, 160] are deliberately uncovered and fall through
// to the country/coordinate fallback.
var fallbackBands = []lonBand{
	{-140, -30, false, "near the North American continent", "near the South American continent"},
	{-30, 60, false, "near Europe and North Africa", "near Southern Africa"},
	{60, 150, true, "over the Asian continent", "over the Indian Ocean and Oceania"},
}

const (
	northPacific = "over the North Pacific"
	southPacific = "over the South Pacific"
)

// RoughLocation maps a position to a human-readable region label without
// any geocoding service. Resolution order: named region box, then
// ocean/continent longitude band, then "near <country>", then a raw
// coordinate string. Missing coordinates yield UnknownLocation.
func RoughLocation(lat, lon *float64, originCountry string) string {
	if lat == nil || lon == nil {
		return UnknownLocation
	}

	for _, box := range regionBoxes {
		if box.Contains(*lat, *lon) {
			return box.Name
		}
	}

	if *lon < -140 || *lon > 160 {
		if *lat >= 0 {
			return northPacific
		}
		return southPacific
	}
	for _, band := range fallbackBands {
		if band.LonMin <= *lon && (*lon < band.LonMax || (band.ClosedMax && *lon == band.LonMax)) {
			if *lat >= 0 {
				return band.North
			}
			return band.South
		}
	}

	if originCountry != "" {
		return fmt.Sprintf("near %s", originCountry)
	}
	return fmt.Sprintf("near latitude %.1f°, longitude %.1f°", *lat, *lon)
}
