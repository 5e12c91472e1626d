package tracking

// MetersToFeet converts meters to feet.
const MetersToFeet = 3.28084

// CommentUnavailable is returned when no altitude reading is present.
const CommentUnavailable = "Altitude is unavailable, so the view cannot be inferred."

// altitudeBand maps a feet ceiling to a view description. The table is
// scanned in order and the first band whose ceiling exceeds the altitude
// wins, so bands must be sorted ascending. The final band is open-ended.
type altitudeBand struct {
	BelowFeet float64
	Text      string
}

var viewBands = []altitudeBand{
	{1000, "Probably near a runway, just before takeoff or right after landing."},
	{10000, "Still climbing; terrain and city streets should be clearly visible."},
	{25000, "Cruising at a height where towns and mountains peek through gaps in the clouds."},
}

const viewAboveClouds = "Cruising above the clouds; outside the window is blue sky over a carpet of cloud."

// ViewComment describes what the view out the window might look like at
// the given altitude in meters. A nil altitude yields the unavailable
// string.
//
// Earlier revisions also accepted velocity and vertical rate but never
// used them; the parameters were dropped here.
func ViewComment(altMeters *float64) string {
	if altMeters == nil {
		return CommentUnavailable
	}

	altFeet := *altMeters * MetersToFeet
	for _, band := range viewBands {
		if altFeet < band.BelowFeet {
			return band.Text
		}
	}
	return viewAboveClouds
}
