package tracking

import (
	"sort"
	"strings"

	"github.com/windowseat/windowseat/pkg/opensky"
)

// DefaultMaxCandidates bounds the candidate list when the caller does
// not supply a limit.
const DefaultMaxCandidates = 30

// NormalizeCallsign trims surrounding whitespace and uppercases a
// callsign for matching. The feed pads callsigns to eight characters.
func NormalizeCallsign(callsign *string) string {
	if callsign == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*callsign))
}

// SelectCandidates filters the feed down to states with a non-empty
// callsign, ordered by last_contact descending. States without a
// last_contact sort after all timestamped ones; ties keep feed order
// (stable sort). The result is truncated to max entries; max <= 0 uses
// DefaultMaxCandidates.
//
// No deduplication happens here: if the feed carries the same icao24
// twice, so does the result.
func SelectCandidates(states []opensky.StateVector, max int) []opensky.StateVector {
	if max <= 0 {
		max = DefaultMaxCandidates
	}

	candidates := make([]opensky.StateVector, 0, len(states))
	for _, sv := range states {
		if NormalizeCallsign(sv.Callsign) == "" {
			continue
		}
		candidates = append(candidates, sv)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return lastContactOrZero(candidates[i]) > lastContactOrZero(candidates[j])
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

func lastContactOrZero(sv opensky.StateVector) int64 {
	if sv.LastContact == nil {
		return 0
	}
	return *sv.LastContact
}

// FindByCallsign returns the first state whose normalized callsign
// matches the given one, case-insensitively. When the feed carries
// duplicate callsigns, feed order decides which wins. The second return
// is false when nothing matches or the query is blank.
func FindByCallsign(states []opensky.StateVector, callsign string) (*opensky.StateVector, bool) {
	want := strings.ToUpper(strings.TrimSpace(callsign))
	if want == "" {
		return nil, false
	}
	for i := range states {
		if NormalizeCallsign(states[i].Callsign) == want {
			return &states[i], true
		}
	}
	return nil, false
}

// FindByICAO24 returns the first state with the given transponder
// address, case-insensitively. The feed stores addresses in lowercase
// hex but callers routinely pass uppercase.
func FindByICAO24(states []opensky.StateVector, icao24 string) (*opensky.StateVector, bool) {
	want := strings.ToLower(strings.TrimSpace(icao24))
	if want == "" {
		return nil, false
	}
	for i := range states {
		if strings.ToLower(states[i].ICAO24) == want {
			return &states[i], true
		}
	}
	return nil, false
}
