package segment

// shouldSegment reports whether the point before a cue starting at nextStart
// is an acceptable cut. The next cue has to begin at least one full length
// after the committed total, and the silence leading into it must not push
// it past the window it would naturally land in.
func shouldSegment(total, length, nextStart, silence float64) bool {
	aligned := alignToSegmentLength(silence, length)
	inNextSegment := silence <= length || aligned+total < nextStart
	return inNextSegment && nextStart-total >= length
}
