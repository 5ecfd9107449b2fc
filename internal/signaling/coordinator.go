package signaling

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/protocol"
	"github.com/1ureka/pastecall/internal/transport"
	"github.com/1ureka/pastecall/internal/util"
)

// Options wires a Coordinator to its collaborators. Surfaces are optional.
type Options struct {
	Devices MediaDevices
	Connect ConnectFunc
	Local   LocalSurface
	Remote  RemoteSurface
}

// Coordinator sequences one manual connection attempt.
//
// User operations are serialized by opMu. Connection events run on pion's
// goroutines and only take mu, never opMu, so an event is never blocked
// behind an operation waiting on pion.
type Coordinator struct {
	devices MediaDevices
	connect ConnectFunc
	local   LocalSurface
	remote  RemoteSurface

	sdp *Buffer
	ice *Buffer

	opMu sync.Mutex

	mu           sync.Mutex
	state        State
	role         Role
	localStream  *media.Stream
	conn         Connection
	remoteStream *media.RemoteStream
	connState    webrtc.PeerConnectionState
	rendered     bool
	onState      []func(State)
}

// New returns an idle coordinator.
func New(opts Options) *Coordinator {
	return &Coordinator{
		devices:      opts.Devices,
		connect:      opts.Connect,
		local:        opts.Local,
		remote:       opts.Remote,
		connState:    webrtc.PeerConnectionStateNew,
		sdp:          newBuffer("sdp"),
		ice:          newBuffer("ice"),
		remoteStream: media.NewRemoteStream(),
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// SDP is the buffer holding the offer or answer text.
func (c *Coordinator) SDP() *Buffer { return c.sdp }

// ICE is the buffer holding the JSON candidate batch.
func (c *Coordinator) ICE() *Buffer { return c.ice }

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// LocalStream returns the currently held local stream, or nil.
func (c *Coordinator) LocalStream() *media.Stream {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localStream
}

// RemoteStream returns the accumulator of inbound tracks.
func (c *Coordinator) RemoteStream() *media.RemoteStream {
	return c.remoteStream
}

// ConnectionState is the last PeerConnection state reported by the
// connection, or New before one exists.
func (c *Coordinator) ConnectionState() webrtc.PeerConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connState
}

// OnStateChange registers fn to run after every state transition.
func (c *Coordinator) OnStateChange(fn func(State)) {
	c.mu.Lock()
	c.onState = append(c.onState, fn)
	c.mu.Unlock()
}

// advance moves the state forward. Transitions never go backwards, so a
// connected event that overtakes a running operation is not undone by it.
func (c *Coordinator) advance(to State) {
	c.mu.Lock()
	if to <= c.state {
		c.mu.Unlock()
		return
	}
	from := c.state
	c.state = to
	subs := slices.Clone(c.onState)
	c.mu.Unlock()

	util.LogDebug("state %s -> %s", from, to)
	for _, fn := range subs {
		fn(to)
	}
}

func (c *Coordinator) require(op string, allowed ...State) error {
	st := c.State()
	for _, s := range allowed {
		if st == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, st)
}

func (c *Coordinator) connection() Connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// ---------------------------------------------------------------------------
// Media and connection setup
// ---------------------------------------------------------------------------

// AcquireMedia replaces the local stream with one from the given devices.
// The previous stream is cleared from the preview and stopped before the
// request, so on failure no local stream is held.
func (c *Coordinator) AcquireMedia(ctx context.Context, audioDeviceID, videoDeviceID string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	old := c.localStream
	c.localStream = nil
	c.mu.Unlock()

	if old != nil {
		if c.local != nil {
			c.local.Clear()
		}
		old.Stop()
	}

	stream, err := c.devices.GetUserMedia(ctx, media.Constraints{
		AudioDeviceID: audioDeviceID,
		VideoDeviceID: videoDeviceID,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceAcquisition, err)
	}

	c.mu.Lock()
	c.localStream = stream
	c.mu.Unlock()

	if c.local != nil {
		c.local.Show(stream)
	}
	c.advance(MediaReady)
	return nil
}

// CreateConnection opens the single connection of this attempt and attaches
// every local track once.
func (c *Coordinator) CreateConnection(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.require("create connection", MediaReady); err != nil {
		return err
	}
	stream := c.LocalStream()
	if stream == nil {
		return fmt.Errorf("%w: no local stream", ErrInvalidState)
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return fmt.Errorf("creating connection: %w", err)
	}
	conn.OnEvent(c.handleEvent)

	for _, t := range stream.Tracks() {
		if err := conn.AddTrack(t); err != nil {
			return errors.Join(fmt.Errorf("attaching %s track: %w", t.Kind(), err), conn.Close())
		}
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	util.LogInfo("peer connection created with %d local tracks", len(stream.Tracks()))
	c.advance(ConnectionOpen)
	return nil
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (c *Coordinator) handleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.IceCandidateDiscovered:
		if ev.Candidate == nil {
			util.LogDebug("ICE gathering complete")
			return
		}
		c.appendLocalCandidate(*ev.Candidate)

	case transport.TrackAdded:
		if c.remoteStream.AddTrack(ev.Track) {
			util.LogInfo("remote %s track added (%s)", ev.Track.Kind(), ev.Track.ID())
		}

	case transport.ConnectionStateChanged:
		c.mu.Lock()
		c.connState = ev.State
		if ev.State != webrtc.PeerConnectionStateConnected {
			c.mu.Unlock()
			return
		}
		first := !c.rendered
		c.rendered = true
		c.mu.Unlock()

		if first && c.remote != nil {
			c.remote.Render(c.remoteStream)
		}
		c.advance(Connected)
		util.LogSuccess("connected")
	}
}

// appendLocalCandidate adds one gathered candidate to the ICE buffer. If
// the operator has left text there that is not a batch, the candidate is
// dropped and the text kept.
func (c *Coordinator) appendLocalCandidate(cand webrtc.ICECandidateInit) {
	c.ice.update(func(text string) (string, bool) {
		next, err := protocol.AppendCandidate(text, cand)
		if err != nil {
			util.LogWarning("dropping local candidate, ICE buffer is not a candidate batch: %v", err)
			return text, false
		}
		return next, true
	})
}

// Close stops local media and closes the connection.
func (c *Coordinator) Close() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	stream, conn := c.localStream, c.conn
	c.localStream, c.conn = nil, nil
	c.mu.Unlock()

	if stream != nil {
		if c.local != nil {
			c.local.Clear()
		}
		stream.Stop()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
