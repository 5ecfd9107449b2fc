package playback

import (
	"container/heap"

	"github.com/pion/rtp"
)

// Default reorder depth: packets held back waiting for a gap to fill.
const defaultReorderWindow = 64

// Reorderer restores sequence order within one RTP stream. Packets that
// arrive ahead of a gap are buffered until the gap fills or the buffer
// exceeds its window, at which point the gap is declared lost.
// It is goroutine-local and needs no locking.
type Reorderer struct {
	window   int
	started  bool
	expected uint64
	buffer   packetHeap
	lost     uint64
}

// NewReorderer creates a reorderer holding at most window packets. A
// non-positive window uses the default.
func NewReorderer(window int) *Reorderer {
	if window <= 0 {
		window = defaultReorderWindow
	}
	return &Reorderer{window: window}
}

// Lost returns how many sequence numbers were skipped so far.
func (r *Reorderer) Lost() uint64 { return r.lost }

// Feed processes a packet with its extended sequence number and returns all
// packets that can now be delivered in order. Returns nil if none are ready.
func (r *Reorderer) Feed(ext uint64, pkt *rtp.Packet) []*rtp.Packet {
	if !r.started {
		r.started = true
		r.expected = ext
	}

	if ext < r.expected {
		// Duplicate, or arrived after its gap was given up on.
		return nil
	}

	if ext > r.expected {
		for _, e := range r.buffer {
			if e.ext == ext {
				return nil
			}
		}
		heap.Push(&r.buffer, entry{ext: ext, pkt: pkt})
		if r.buffer.Len() <= r.window {
			return nil
		}
		// Window overflow: skip to the oldest buffered packet.
		r.lost += r.buffer[0].ext - r.expected
		r.expected = r.buffer[0].ext
		return r.drain(nil)
	}

	r.expected++
	return r.drain([]*rtp.Packet{pkt})
}

func (r *Reorderer) drain(out []*rtp.Packet) []*rtp.Packet {
	for r.buffer.Len() > 0 && r.buffer[0].ext == r.expected {
		out = append(out, heap.Pop(&r.buffer).(entry).pkt)
		r.expected++
	}
	return out
}

// ---------------------------------------------------------------------------
// packetHeap implements a min-heap sorted by extended sequence number.
// ---------------------------------------------------------------------------

type entry struct {
	ext uint64
	pkt *rtp.Packet
}

type packetHeap []entry

func (h packetHeap) Len() int            { return len(h) }
func (h packetHeap) Less(i, j int) bool  { return h[i].ext < h[j].ext }
func (h packetHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *packetHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }

func (h *packetHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return item
}
