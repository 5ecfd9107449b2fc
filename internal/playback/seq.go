package playback

// SeqTracker extends 16-bit RTP sequence numbers into a 64-bit space that
// does not wrap. It is goroutine-local.
type SeqTracker struct {
	started bool
	cycles  uint64
	last    uint16
}

// NewSeqTracker returns a tracker that accepts any first sequence number.
func NewSeqTracker() *SeqTracker {
	return &SeqTracker{}
}

// Extend maps seq onto the extended space using the sequence number closest
// to the last one seen, so wraparound and moderate reordering both resolve.
func (s *SeqTracker) Extend(seq uint16) uint64 {
	if !s.started {
		s.started = true
		s.last = seq
		s.cycles = 1 << 16 // room for packets reordered before the first one
		return s.cycles | uint64(seq)
	}

	delta := int16(seq - s.last)
	ext := int64(s.cycles|uint64(s.last)) + int64(delta)
	if delta > 0 {
		if seq < s.last {
			s.cycles += 1 << 16
		}
		s.last = seq
	}

	return uint64(ext)
}
