package media

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

// Stream is a set of local tracks acquired together.
type Stream struct {
	id     string
	tracks []Track
}

// NewStream groups tracks under a fresh stream ID.
func NewStream(tracks ...Track) *Stream {
	return &Stream{id: uuid.NewString(), tracks: tracks}
}

func (s *Stream) ID() string { return s.id }

// Tracks returns the stream's tracks in acquisition order.
func (s *Stream) Tracks() []Track {
	return append([]Track(nil), s.tracks...)
}

// Stop stops every track of the stream.
func (s *Stream) Stop() {
	for _, t := range s.tracks {
		t.Stop()
	}
}

// ---------------------------------------------------------------------------
// Remote side
// ---------------------------------------------------------------------------

// RemoteTrack is the read side of one inbound track. *webrtc.TrackRemote
// satisfies it.
type RemoteTrack interface {
	ID() string
	StreamID() string
	Kind() webrtc.RTPCodecType
	Codec() webrtc.RTPCodecParameters
	SSRC() webrtc.SSRC
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

var _ RemoteTrack = (*webrtc.TrackRemote)(nil)

// RemoteStream accumulates inbound tracks as the connection reports them.
// Subscribers see every track exactly once, whether it arrived before or
// after they subscribed.
type RemoteStream struct {
	mu     sync.Mutex
	tracks []RemoteTrack
	subs   []func(RemoteTrack)
}

// NewRemoteStream returns an empty accumulator.
func NewRemoteStream() *RemoteStream {
	return &RemoteStream{}
}

// AddTrack appends t unless a track with the same ID is already present.
// It reports whether the track was added.
func (s *RemoteStream) AddTrack(t RemoteTrack) bool {
	s.mu.Lock()
	for _, existing := range s.tracks {
		if existing.ID() == t.ID() {
			s.mu.Unlock()
			return false
		}
	}
	s.tracks = append(s.tracks, t)
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
	return true
}

// Tracks returns a snapshot of the accumulated tracks.
func (s *RemoteStream) Tracks() []RemoteTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RemoteTrack(nil), s.tracks...)
}

// Subscribe calls fn for every current track and for each track added later.
func (s *RemoteStream) Subscribe(fn func(RemoteTrack)) {
	s.mu.Lock()
	existing := append([]RemoteTrack(nil), s.tracks...)
	s.subs = append(s.subs, fn)
	s.mu.Unlock()

	for _, t := range existing {
		fn(t)
	}
}
