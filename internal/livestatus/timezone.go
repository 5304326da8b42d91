package livestatus

import "fmt"

// halfHour is the rounding granularity and the unit of the ±48 bound a
// Localtime: header's client/server clock skew must fall within.
const halfHour = 1800

// maxLocaltimeOffsetUnits bounds the rounded offset to ±48 half-hours
// (±24h), beyond which the header is rejected as implausible clock skew
// rather than a real timezone difference.
const maxLocaltimeOffsetUnits = 48

// LocaltimeOffset computes the server-relative clock offset implied by a
// Localtime: header: the client's reported epoch seconds minus the
// server's own, rounded to the nearest half hour (the finest granularity
// real-world UTC offsets use). An error is returned when the implied skew
// exceeds 48 half-hours, since at that point it is far more likely a
// misconfigured clock than a timezone difference and applying it would
// silently corrupt every time-valued column in the response.
func LocaltimeOffset(clientEpoch, serverEpoch int64) (int64, error) {
	diff := clientEpoch - serverEpoch
	rounded := roundToHalfHour(diff)
	if rounded > maxLocaltimeOffsetUnits*halfHour || rounded < -maxLocaltimeOffsetUnits*halfHour {
		return 0, fmt.Errorf("Localtime offset %ds exceeds plausible range", rounded)
	}
	return rounded, nil
}

func roundToHalfHour(diff int64) int64 {
	if diff >= 0 {
		return ((diff + halfHour/2) / halfHour) * halfHour
	}
	neg := -diff
	return -(((neg + halfHour/2) / halfHour) * halfHour)
}
