package signaling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/protocol"
	"github.com/1ureka/pastecall/internal/transport"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubTrack struct {
	*webrtc.TrackLocalStaticSample
	mu      sync.Mutex
	stopped int
}

func newStubTrack(t *testing.T, mime, id string) *stubTrack {
	t.Helper()
	s, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{MimeType: mime}, id, "stub")
	require.NoError(t, err)
	return &stubTrack{TrackLocalStaticSample: s}
}

func (s *stubTrack) Stop() {
	s.mu.Lock()
	s.stopped++
	s.mu.Unlock()
}

func (s *stubTrack) stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type stubDevices struct {
	t       *testing.T
	err     error
	calls   []media.Constraints
	streams []*media.Stream
	tracks  [][]*stubTrack
	// stoppedBefore records, per call, whether every earlier track had
	// already been stopped when the call was made.
	stoppedBefore []bool
}

func (d *stubDevices) GetUserMedia(_ context.Context, c media.Constraints) (*media.Stream, error) {
	all := true
	for _, set := range d.tracks {
		for _, tr := range set {
			if tr.stops() == 0 {
				all = false
			}
		}
	}
	d.stoppedBefore = append(d.stoppedBefore, all)
	d.calls = append(d.calls, c)
	if d.err != nil {
		return nil, d.err
	}

	n := len(d.streams)
	audio := newStubTrack(d.t, webrtc.MimeTypeOpus, "audio-"+string(rune('a'+n)))
	video := newStubTrack(d.t, webrtc.MimeTypeVP8, "video-"+string(rune('a'+n)))
	s := media.NewStream(audio, video)
	d.streams = append(d.streams, s)
	d.tracks = append(d.tracks, []*stubTrack{audio, video})
	return s, nil
}

type stubConn struct {
	mu sync.Mutex

	calls      []string
	added      []webrtc.TrackLocal
	local      []webrtc.SessionDescription
	remote     []webrtc.SessionDescription
	candidates []webrtc.ICECandidateInit
	offerOpts  transport.OfferOptions
	handler    func(transport.Event)
	closed     bool

	offerErr     error
	answerErr    error
	setLocalErr  error
	setRemoteErr error
	addTrackErr  error
	// failCandidateAt makes the n-th (0-based) AddICECandidate fail; -1 never.
	failCandidateAt int
	onCandidate     func(i int)
	inFlight        int
	maxInFlight     int
}

func newStubConn() *stubConn { return &stubConn{failCandidateAt: -1} }

func (s *stubConn) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *stubConn) AddTrack(track webrtc.TrackLocal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("add-track")
	if s.addTrackErr != nil {
		return s.addTrackErr
	}
	s.added = append(s.added, track)
	return nil
}

func (s *stubConn) CreateOffer(opts transport.OfferOptions) (webrtc.SessionDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create-offer")
	s.offerOpts = opts
	if s.offerErr != nil {
		return webrtc.SessionDescription{}, s.offerErr
	}
	return webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0\r\no=offer\r\n"}, nil
}

func (s *stubConn) CreateAnswer() (webrtc.SessionDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create-answer")
	if s.answerErr != nil {
		return webrtc.SessionDescription{}, s.answerErr
	}
	return webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0\r\no=answer\r\n"}, nil
}

func (s *stubConn) SetLocalDescription(sdp webrtc.SessionDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("set-local")
	if s.setLocalErr != nil {
		return s.setLocalErr
	}
	s.local = append(s.local, sdp)
	return nil
}

func (s *stubConn) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("set-remote")
	if s.setRemoteErr != nil {
		return s.setRemoteErr
	}
	s.remote = append(s.remote, sdp)
	return nil
}

func (s *stubConn) AddICECandidate(c webrtc.ICECandidateInit) error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	i := len(s.candidates)
	s.record("add-candidate")
	fail := i == s.failCandidateAt
	if !fail {
		s.candidates = append(s.candidates, c)
	}
	hook := s.onCandidate
	s.mu.Unlock()

	if hook != nil {
		hook(i)
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	if fail {
		return errors.New("stub: rejected candidate")
	}
	return nil
}

func (s *stubConn) OnEvent(fn func(transport.Event)) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}

func (s *stubConn) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *stubConn) emit(ev transport.Event) {
	s.mu.Lock()
	fn := s.handler
	s.mu.Unlock()
	fn(ev)
}

func (s *stubConn) callsOf(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

type stubSurface struct {
	mu       sync.Mutex
	events   []string
	renders  int
	rendered *media.RemoteStream
}

func (s *stubSurface) Show(*media.Stream) {
	s.mu.Lock()
	s.events = append(s.events, "show")
	s.mu.Unlock()
}

func (s *stubSurface) Clear() {
	s.mu.Lock()
	s.events = append(s.events, "clear")
	s.mu.Unlock()
}

func (s *stubSurface) Render(rs *media.RemoteStream) {
	s.mu.Lock()
	s.renders++
	s.rendered = rs
	s.mu.Unlock()
}

type fixture struct {
	c       *Coordinator
	devices *stubDevices
	conn    *stubConn
	surface *stubSurface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		devices: &stubDevices{t: t},
		conn:    newStubConn(),
		surface: &stubSurface{},
	}
	f.c = New(Options{
		Devices: f.devices,
		Connect: func(context.Context) (Connection, error) { return f.conn, nil },
		Local:   f.surface,
		Remote:  f.surface,
	})
	return f
}

// open drives the fixture to ConnectionOpen.
func (f *fixture) open(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.c.AcquireMedia(ctx, "mic", "cam"))
	require.NoError(t, f.c.CreateConnection(ctx))
	require.Equal(t, ConnectionOpen, f.c.State())
}

// ---------------------------------------------------------------------------
// Media acquisition
// ---------------------------------------------------------------------------

func TestAcquireMediaPassesDeviceIDs(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.c.AcquireMedia(context.Background(), "mic", "cam"))

	assert.Equal(t, []media.Constraints{{AudioDeviceID: "mic", VideoDeviceID: "cam"}}, f.devices.calls)
	assert.Equal(t, MediaReady, f.c.State())
	assert.Same(t, f.devices.streams[0], f.c.LocalStream())
	assert.Equal(t, []string{"show"}, f.surface.events)
}

func TestAcquireMediaStopsPreviousStreamFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.c.AcquireMedia(ctx, "", ""))
	require.NoError(t, f.c.AcquireMedia(ctx, "", ""))
	require.NoError(t, f.c.AcquireMedia(ctx, "", ""))

	assert.Equal(t, []bool{true, true, true}, f.devices.stoppedBefore)
	for _, tr := range f.devices.tracks[0] {
		assert.Equal(t, 1, tr.stops())
	}
	for _, tr := range f.devices.tracks[2] {
		assert.Zero(t, tr.stops())
	}
	assert.Same(t, f.devices.streams[2], f.c.LocalStream())
	assert.Equal(t, []string{"show", "clear", "show", "clear", "show"}, f.surface.events)
}

func TestAcquireMediaFailure(t *testing.T) {
	f := newFixture(t)
	f.devices.err = media.ErrDeviceBusy

	err := f.c.AcquireMedia(context.Background(), "", "")

	assert.ErrorIs(t, err, ErrDeviceAcquisition)
	assert.ErrorIs(t, err, media.ErrDeviceBusy)
	assert.Equal(t, Idle, f.c.State())
	assert.Nil(t, f.c.LocalStream())
}

func TestAcquireMediaFailureAfterSuccessReleasesOldStream(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.c.AcquireMedia(ctx, "", ""))

	f.devices.err = media.ErrDeviceNotFound
	assert.ErrorIs(t, f.c.AcquireMedia(ctx, "", ""), ErrDeviceAcquisition)

	assert.Equal(t, MediaReady, f.c.State())
	assert.Nil(t, f.c.LocalStream())
	for _, tr := range f.devices.tracks[0] {
		assert.Equal(t, 1, tr.stops())
	}
	// Without a live stream there is nothing to attach.
	assert.ErrorIs(t, f.c.CreateConnection(ctx), ErrInvalidState)
}

// ---------------------------------------------------------------------------
// Connection setup
// ---------------------------------------------------------------------------

func TestCreateConnectionRequiresMedia(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.c.CreateConnection(context.Background()), ErrInvalidState)
	assert.Empty(t, f.conn.calls)
}

func TestCreateConnectionAttachesEveryTrackOnce(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	want := f.devices.streams[0].Tracks()
	require.Len(t, f.conn.added, len(want))
	for i, tr := range want {
		assert.Same(t, tr, f.conn.added[i])
	}

	// A second connection in the same attempt is refused.
	assert.ErrorIs(t, f.c.CreateConnection(context.Background()), ErrInvalidState)
	assert.Len(t, f.conn.added, len(want))
}

func TestCreateConnectionAttachFailureClosesConnection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.c.AcquireMedia(ctx, "", ""))
	f.conn.addTrackErr = errors.New("stub: no transceiver")

	assert.Error(t, f.c.CreateConnection(ctx))
	assert.True(t, f.conn.closed)
	assert.Equal(t, MediaReady, f.c.State())
}

// ---------------------------------------------------------------------------
// Offer / answer
// ---------------------------------------------------------------------------

func TestCreateOffer(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	require.NoError(t, f.c.CreateOffer(context.Background()))

	assert.Equal(t, transport.OfferOptions{ReceiveAudio: true, ReceiveVideo: true}, f.conn.offerOpts)
	require.Len(t, f.conn.local, 1)
	assert.Equal(t, webrtc.SDPTypeOffer, f.conn.local[0].Type)
	assert.Equal(t, "v=0\r\no=offer\r\n", f.c.SDP().Get())
	assert.Equal(t, Caller, f.c.Role())
	assert.Equal(t, OfferCreated, f.c.State())
}

func TestCreateOfferFailureLeavesState(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.conn.offerErr = errors.New("stub: no codecs")

	err := f.c.CreateOffer(context.Background())

	assert.ErrorIs(t, err, ErrDescriptionNegotiation)
	assert.Zero(t, f.conn.callsOf("set-local"))
	assert.Empty(t, f.c.SDP().Get())
	assert.Equal(t, RoleUnset, f.c.Role())
	assert.Equal(t, ConnectionOpen, f.c.State())
}

func TestCreateOfferSetLocalFailure(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.conn.setLocalErr = errors.New("stub: bad state")

	assert.ErrorIs(t, f.c.CreateOffer(context.Background()), ErrApplyDescription)
	assert.Equal(t, ConnectionOpen, f.c.State())
	assert.Equal(t, RoleUnset, f.c.Role())
}

func TestCreateOfferRequiresConnection(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.c.CreateOffer(context.Background()), ErrInvalidState)
}

func TestAcceptOfferNormalizesLineEndings(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.c.SDP().Set("v=0\nfoo\n")

	require.NoError(t, f.c.AcceptOffer(context.Background()))

	require.Len(t, f.conn.remote, 1)
	assert.Equal(t, webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0\r\nfoo\r\n"}, f.conn.remote[0])
	assert.Equal(t, "v=0\r\no=answer\r\n", f.c.SDP().Get())
	assert.Equal(t, Callee, f.c.Role())
	assert.Equal(t, OfferAccepted, f.c.State())
}

// The callee's answer only becomes its local description through
// ApplyAnswer. Accepting the offer must not set it.
func TestAcceptOfferDoesNotSetLocalDescription(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.c.SDP().Set("v=0\n")

	require.NoError(t, f.c.AcceptOffer(context.Background()))

	assert.Equal(t, []string{"add-track", "add-track", "set-remote", "create-answer"}, f.conn.calls)
	assert.Empty(t, f.conn.local)
}

func TestAcceptOfferFailures(t *testing.T) {
	t.Run("set remote", func(t *testing.T) {
		f := newFixture(t)
		f.open(t)
		f.c.SDP().Set("garbage")
		f.conn.setRemoteErr = errors.New("stub: parse error")

		assert.ErrorIs(t, f.c.AcceptOffer(context.Background()), ErrApplyDescription)
		assert.Zero(t, f.conn.callsOf("create-answer"))
		assert.Equal(t, "garbage", f.c.SDP().Get())
		assert.Equal(t, ConnectionOpen, f.c.State())
		assert.Equal(t, RoleUnset, f.c.Role())
	})

	t.Run("create answer", func(t *testing.T) {
		f := newFixture(t)
		f.open(t)
		f.c.SDP().Set("v=0\n")
		f.conn.answerErr = errors.New("stub: no answer")

		assert.ErrorIs(t, f.c.AcceptOffer(context.Background()), ErrDescriptionNegotiation)
		assert.Equal(t, "v=0\n", f.c.SDP().Get())
		assert.Equal(t, ConnectionOpen, f.c.State())
	})
}

func TestApplyAnswerRequiresRole(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.c.SDP().Set("v=0\n")

	assert.ErrorIs(t, f.c.ApplyAnswer(context.Background()), ErrRoleUnset)
	assert.Zero(t, f.conn.callsOf("set-local"))
	assert.Zero(t, f.conn.callsOf("set-remote"))
}

func TestApplyAnswerDirectionByRole(t *testing.T) {
	tests := []struct {
		name       string
		start      func(*Coordinator) error
		wantSetter string
	}{
		{"caller sets remote", func(c *Coordinator) error { return c.CreateOffer(context.Background()) }, "set-remote"},
		{"callee sets local", func(c *Coordinator) error { return c.AcceptOffer(context.Background()) }, "set-local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.open(t)
			f.c.SDP().Set("v=0\n")
			require.NoError(t, tt.start(f.c))
			local, remote := len(f.conn.local), len(f.conn.remote)

			f.c.SDP().Set("v=0\nfoo\n")
			require.NoError(t, f.c.ApplyAnswer(context.Background()))

			want := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0\r\nfoo\r\n"}
			switch tt.wantSetter {
			case "set-remote":
				require.Len(t, f.conn.remote, remote+1)
				assert.Equal(t, want, f.conn.remote[remote])
				assert.Len(t, f.conn.local, local)
			case "set-local":
				require.Len(t, f.conn.local, local+1)
				assert.Equal(t, want, f.conn.local[local])
				assert.Len(t, f.conn.remote, remote)
			}
			assert.Equal(t, AnswerApplied, f.c.State())
		})
	}
}

func TestApplyAnswerFailureLeavesState(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	require.NoError(t, f.c.CreateOffer(context.Background()))
	f.conn.setRemoteErr = errors.New("stub: bad answer")

	assert.ErrorIs(t, f.c.ApplyAnswer(context.Background()), ErrApplyDescription)
	assert.Equal(t, OfferCreated, f.c.State())
}

func TestApplyAnswerTwiceRefused(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	require.NoError(t, f.c.CreateOffer(context.Background()))
	require.NoError(t, f.c.ApplyAnswer(context.Background()))

	assert.ErrorIs(t, f.c.ApplyAnswer(context.Background()), ErrInvalidState)
	assert.Equal(t, 1, f.conn.callsOf("set-remote"))
}

// ---------------------------------------------------------------------------
// ICE batches
// ---------------------------------------------------------------------------

func candidate(i int) webrtc.ICECandidateInit {
	mid := "0"
	idx := uint16(0)
	return webrtc.ICECandidateInit{
		Candidate:     "candidate:" + string(rune('1'+i)) + " 1 udp 2130706431 10.0.0.1 5000" + string(rune('0'+i)) + " typ host",
		SDPMid:        &mid,
		SDPMLineIndex: &idx,
	}
}

func TestApplyCandidatesInOrderOneAtATime(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	batch := protocol.Batch{candidate(0), candidate(1), candidate(2)}
	text, err := protocol.EncodeBatch(batch)
	require.NoError(t, err)
	f.c.ICE().Set(text)

	n, err := f.c.ApplyCandidates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []webrtc.ICECandidateInit(batch), f.conn.candidates)
	assert.Equal(t, 1, f.conn.maxInFlight)
}

func TestApplyCandidatesNotJSON(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.c.ICE().Set("not json")

	n, err := f.c.ApplyCandidates(context.Background())

	assert.ErrorIs(t, err, ErrMalformedRelayPayload)
	assert.Zero(t, n)
	assert.Zero(t, f.conn.callsOf("add-candidate"))
	assert.Equal(t, "not json", f.c.ICE().Get())
}

func TestApplyCandidatesStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	text, err := protocol.EncodeBatch(protocol.Batch{candidate(0), candidate(1), candidate(2)})
	require.NoError(t, err)
	f.c.ICE().Set(text)
	f.conn.failCandidateAt = 1

	n, err := f.c.ApplyCandidates(context.Background())

	assert.ErrorIs(t, err, ErrApplyCandidate)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, f.conn.callsOf("add-candidate"))
}

func TestApplyCandidatesObservesCancellation(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	text, err := protocol.EncodeBatch(protocol.Batch{candidate(0), candidate(1), candidate(2)})
	require.NoError(t, err)
	f.c.ICE().Set(text)

	ctx, cancel := context.WithCancel(context.Background())
	f.conn.onCandidate = func(i int) {
		if i == 0 {
			cancel()
		}
	}

	n, err := f.c.ApplyCandidates(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, f.conn.callsOf("add-candidate"))
}

func TestApplyCandidatesRequiresConnection(t *testing.T) {
	f := newFixture(t)
	f.c.ICE().Set("[]")

	_, err := f.c.ApplyCandidates(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func TestLocalCandidatesAppendToBatch(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	c0, c1 := candidate(0), candidate(1)
	f.conn.emit(transport.Event{Kind: transport.IceCandidateDiscovered, Candidate: &c0})
	f.conn.emit(transport.Event{Kind: transport.IceCandidateDiscovered, Candidate: &c1})
	f.conn.emit(transport.Event{Kind: transport.IceCandidateDiscovered})

	batch, err := protocol.DecodeBatch(f.c.ICE().Get())
	require.NoError(t, err)
	assert.Equal(t, protocol.Batch{c0, c1}, batch)
}

func TestLocalCandidateKeepsEditedBuffer(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.c.ICE().Set("half-pasted [")

	c0 := candidate(0)
	f.conn.emit(transport.Event{Kind: transport.IceCandidateDiscovered, Candidate: &c0})

	assert.Equal(t, "half-pasted [", f.c.ICE().Get())
}

type fakeRemoteTrack struct {
	media.RemoteTrack
	id   string
	kind webrtc.RTPCodecType
}

func (f fakeRemoteTrack) ID() string                { return f.id }
func (f fakeRemoteTrack) Kind() webrtc.RTPCodecType { return f.kind }

func TestTracksAccumulateAndRenderOnConnected(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	var states []State
	f.c.OnStateChange(func(s State) { states = append(states, s) })

	audio := fakeRemoteTrack{id: "a", kind: webrtc.RTPCodecTypeAudio}
	f.conn.emit(transport.Event{Kind: transport.TrackAdded, Track: audio})
	f.conn.emit(transport.Event{Kind: transport.TrackAdded, Track: audio})
	f.conn.emit(transport.Event{Kind: transport.ConnectionStateChanged, State: webrtc.PeerConnectionStateConnecting})
	assert.Zero(t, f.surface.renders)
	assert.Equal(t, webrtc.PeerConnectionStateConnecting, f.c.ConnectionState())

	f.conn.emit(transport.Event{Kind: transport.ConnectionStateChanged, State: webrtc.PeerConnectionStateConnected})
	f.conn.emit(transport.Event{Kind: transport.TrackAdded, Track: fakeRemoteTrack{id: "v", kind: webrtc.RTPCodecTypeVideo}})
	f.conn.emit(transport.Event{Kind: transport.ConnectionStateChanged, State: webrtc.PeerConnectionStateDisconnected})
	assert.Equal(t, webrtc.PeerConnectionStateDisconnected, f.c.ConnectionState())
	assert.Equal(t, Connected, f.c.State())
	f.conn.emit(transport.Event{Kind: transport.ConnectionStateChanged, State: webrtc.PeerConnectionStateConnected})

	assert.Equal(t, 1, f.surface.renders)
	assert.Same(t, f.c.RemoteStream(), f.surface.rendered)
	assert.Len(t, f.c.RemoteStream().Tracks(), 2)
	assert.Equal(t, Connected, f.c.State())
	assert.Equal(t, webrtc.PeerConnectionStateConnected, f.c.ConnectionState())
	assert.Equal(t, []State{Connected}, states)
}

func TestCloseReleasesEverything(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	require.NoError(t, f.c.Close())

	assert.True(t, f.conn.closed)
	for _, tr := range f.devices.tracks[0] {
		assert.Equal(t, 1, tr.stops())
	}
	assert.Nil(t, f.c.LocalStream())
}

func TestStateAndRoleStrings(t *testing.T) {
	assert.Equal(t, "offer-accepted", OfferAccepted.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "caller", Caller.String())
	assert.Equal(t, "unset", RoleUnset.String())
}
