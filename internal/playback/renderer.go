// Package playback implements the local preview and remote rendering
// surfaces. Remote tracks are read, reordered and optionally recorded to
// IVF or Ogg files.
package playback

import (
	"context"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/util"
)

// KeyframeRequester asks the sender of a video stream for a keyframe.
type KeyframeRequester interface {
	RequestKeyframe(ssrc webrtc.SSRC) error
}

// Renderer plays remote tracks. It keeps a route table of active players
// keyed by track ID; players remove themselves when they end.
type Renderer struct {
	ctx       context.Context
	cancel    context.CancelFunc
	recordDir string

	mu        sync.Mutex
	routes    map[string]*player
	keyframes KeyframeRequester
}

// NewRenderer creates a renderer. A non-empty recordDir records each track
// to a file in that directory.
func NewRenderer(recordDir string) *Renderer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Renderer{
		ctx:       ctx,
		cancel:    cancel,
		recordDir: recordDir,
		routes:    make(map[string]*player),
	}
}

// SetKeyframeRequester sets where keyframe requests for new video tracks go.
func (r *Renderer) SetKeyframeRequester(k KeyframeRequester) {
	r.mu.Lock()
	r.keyframes = k
	r.mu.Unlock()
}

// Render plays every track of the stream, including tracks added later.
func (r *Renderer) Render(stream *media.RemoteStream) {
	util.LogInfo("rendering remote stream (%d tracks so far)", len(stream.Tracks()))
	stream.Subscribe(r.play)
}

// Active returns the IDs of the tracks currently playing.
func (r *Renderer) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.routes))
	for id := range r.routes {
		ids = append(ids, id)
	}
	return ids
}

func (r *Renderer) play(track media.RemoteTrack) {
	if r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	_, dup := r.routes[track.ID()]
	k := r.keyframes
	r.mu.Unlock()
	if dup {
		return
	}

	sink, path, err := openSink(r.recordDir, track)
	if err != nil {
		util.LogError("[%s] cannot record: %v", track.ID(), err)
		sink, path = discardSink{}, ""
	}

	p := newPlayer(r.ctx, track, sink, path)
	r.register(p)
	go p.run()

	util.LogInfo("playing remote %s track %s (%s)", track.Kind(), track.ID(), track.Codec().MimeType)

	if track.Kind() == webrtc.RTPCodecTypeVideo && k != nil {
		if err := k.RequestKeyframe(track.SSRC()); err != nil {
			util.LogDebug("[%s] keyframe request failed: %v", track.ID(), err)
		}
	}
}

// register adds a player to the route table and starts an auto-cleanup
// goroutine that removes the entry when the player finishes.
func (r *Renderer) register(p *player) {
	r.mu.Lock()
	r.routes[p.id] = p
	r.mu.Unlock()

	go func() {
		<-p.done
		r.mu.Lock()
		delete(r.routes, p.id)
		r.mu.Unlock()
	}()
}

// Close stops every player and waits for their sinks to close.
func (r *Renderer) Close() error {
	r.cancel()

	r.mu.Lock()
	players := make([]*player, 0, len(r.routes))
	for _, p := range r.routes {
		players = append(players, p)
	}
	r.mu.Unlock()

	for _, p := range players {
		p.stop()
	}
	return nil
}
