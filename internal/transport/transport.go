// Package transport wraps a pion PeerConnection as the WebRTC capability
// driven by the signaling coordinator. Pion callbacks are surfaced as one
// stream of enumerated events.
package transport

import (
	"errors"
	"sync"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/util"
)

// EventKind enumerates what the connection reports.
type EventKind int

const (
	IceCandidateDiscovered EventKind = iota
	TrackAdded
	ConnectionStateChanged
)

func (k EventKind) String() string {
	switch k {
	case IceCandidateDiscovered:
		return "IceCandidateDiscovered"
	case TrackAdded:
		return "TrackAdded"
	case ConnectionStateChanged:
		return "ConnectionStateChanged"
	default:
		return "Unknown"
	}
}

// Event is one notification from the connection. Only the field matching
// Kind is set. A nil Candidate marks the end of local gathering.
type Event struct {
	Kind      EventKind
	Candidate *webrtc.ICECandidateInit
	Track     media.RemoteTrack
	State     webrtc.PeerConnectionState
}

// OfferOptions mirrors the offerToReceiveAudio/Video offer options.
type OfferOptions struct {
	ReceiveAudio bool
	ReceiveVideo bool
}

// Transport wraps a single PeerConnection. Its lifecycle ends only with
// Close; connection failures are recorded but not acted upon.
type Transport struct {
	pc *webrtc.PeerConnection

	mu      sync.RWMutex
	handler func(Event)
}

// NewTransport creates a PeerConnection from api with the given ICE
// servers. A nil api uses pion's defaults.
func NewTransport(api *webrtc.API, iceServers []webrtc.ICEServer) (*Transport, error) {
	if api == nil {
		api = webrtc.NewAPI()
	}

	pc, err := api.NewPeerConnection(webrtc.Configuration{ICEServers: iceServers})
	if err != nil {
		return nil, err
	}

	t := &Transport{pc: pc}

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		ev := Event{Kind: IceCandidateDiscovered}
		if c != nil {
			cand := c.ToJSON()
			ev.Candidate = &cand
		}
		t.emit(ev)
	})

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		util.LogDebug("remote %s track %s (%s, ssrc=%d)", track.Kind(), track.ID(), track.Codec().MimeType, track.SSRC())
		t.emit(Event{Kind: TrackAdded, Track: track})
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		util.LogInfo("PeerConnection state: %s", state.String())
		t.emit(Event{Kind: ConnectionStateChanged, State: state})
	})

	return t, nil
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// OnEvent installs the event handler, replacing any previous one. Events
// that fire before a handler is installed are dropped.
func (t *Transport) OnEvent(fn func(Event)) {
	t.mu.Lock()
	t.handler = fn
	t.mu.Unlock()
}

func (t *Transport) emit(ev Event) {
	t.mu.RLock()
	fn := t.handler
	t.mu.RUnlock()

	if fn != nil {
		fn(ev)
	}
}

// GatheringComplete is closed once local candidate gathering has finished
// for the current local description.
func (t *Transport) GatheringComplete() <-chan struct{} {
	return webrtc.GatheringCompletePromise(t.pc)
}

// Close shuts down the PeerConnection.
func (t *Transport) Close() error {
	return t.pc.Close()
}

// ---------------------------------------------------------------------------
// Media
// ---------------------------------------------------------------------------

// AddTrack attaches a local track and starts draining its RTCP feedback.
func (t *Transport) AddTrack(track webrtc.TrackLocal) error {
	sender, err := t.pc.AddTrack(track)
	if err != nil {
		return err
	}
	go drainRTCP(sender, track.ID())
	return nil
}

// RequestKeyframe sends a picture loss indication for a received video
// stream.
func (t *Transport) RequestKeyframe(ssrc webrtc.SSRC) error {
	return t.pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: uint32(ssrc)}})
}

// ---------------------------------------------------------------------------
// Signaling
// ---------------------------------------------------------------------------

// CreateOffer generates an SDP offer. Kinds requested for reception that no
// local track covers get a receive-only transceiver first.
func (t *Transport) CreateOffer(opts OfferOptions) (webrtc.SessionDescription, error) {
	var errs []error
	if opts.ReceiveAudio {
		errs = append(errs, t.ensureTransceiver(webrtc.RTPCodecTypeAudio))
	}
	if opts.ReceiveVideo {
		errs = append(errs, t.ensureTransceiver(webrtc.RTPCodecTypeVideo))
	}
	if err := errors.Join(errs...); err != nil {
		return webrtc.SessionDescription{}, err
	}
	return t.pc.CreateOffer(nil)
}

func (t *Transport) ensureTransceiver(kind webrtc.RTPCodecType) error {
	for _, tr := range t.pc.GetTransceivers() {
		if tr.Kind() == kind {
			return nil
		}
	}
	_, err := t.pc.AddTransceiverFromKind(kind, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionRecvonly,
	})
	return err
}

// CreateAnswer generates an SDP answer.
func (t *Transport) CreateAnswer() (webrtc.SessionDescription, error) {
	return t.pc.CreateAnswer(nil)
}

// SetLocalDescription applies the local SDP.
func (t *Transport) SetLocalDescription(sdp webrtc.SessionDescription) error {
	return t.pc.SetLocalDescription(sdp)
}

// SetRemoteDescription applies the remote SDP.
func (t *Transport) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	return t.pc.SetRemoteDescription(sdp)
}

// AddICECandidate adds a remote ICE candidate relayed by the user.
func (t *Transport) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	return t.pc.AddICECandidate(candidate)
}
