package segment

import "math"

// alignToSegmentLength rounds n up to the next multiple of length that is
// strictly greater than n. An exact multiple moves a whole length forward:
// alignToSegmentLength(20, 10) == 30.
func alignToSegmentLength(n, length float64) float64 {
	return n + (length - math.Mod(n, length))
}

// segmentDuration sizes a closed segment from the content it gathered.
// Overflowing content is aligned to the segment grid; the result is rounded
// to whole seconds.
func segmentDuration(current, length float64) float64 {
	d := current
	if current > length {
		d = alignToSegmentLength(current-length, length)
	}
	return math.Round(d)
}
