package playback

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/util"
)

const inboxBufferSize = 256 // per-track packet queue between reader and player

// player holds the complete lifecycle state for one remote track.
type player struct {
	id   string
	kind webrtc.RTPCodecType

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}

	track media.RemoteTrack
	inbox chan *rtp.Packet

	seq     *SeqTracker
	reorder *Reorderer
	sink    Sink
	path    string
}

func newPlayer(parent context.Context, track media.RemoteTrack, sink Sink, path string) *player {
	ctx, cancel := context.WithCancel(parent)
	return &player{
		id:      track.ID(),
		kind:    track.Kind(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		track:   track,
		inbox:   make(chan *rtp.Packet, inboxBufferSize),
		seq:     NewSeqTracker(),
		reorder: NewReorderer(0),
		sink:    sink,
		path:    path,
	}
}

// run drains the inbox through the reorderer into the sink until the track
// ends or the player is stopped.
func (p *player) run() {
	defer p.cleanup()
	go p.readLoop()

	for {
		select {
		case pkt, ok := <-p.inbox:
			if !ok {
				return
			}
			lostBefore := p.reorder.Lost()
			for _, d := range p.reorder.Feed(p.seq.Extend(pkt.SequenceNumber), pkt) {
				if err := p.sink.WriteRTP(d); err != nil {
					util.LogError("[%s] write failed: %v", p.id, err)
					return
				}
			}
			if lost := p.reorder.Lost() - lostBefore; lost > 0 {
				util.Stats.AddLost(int(lost))
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// readLoop reads RTP from the track into the inbox. ReadRTP blocks until
// the connection delivers or the receiver is stopped.
func (p *player) readLoop() {
	defer close(p.inbox)

	for {
		pkt, _, err := p.track.ReadRTP()
		if err != nil {
			select {
			case <-p.ctx.Done():
			default:
				if !errors.Is(err, io.EOF) {
					util.LogDebug("[%s] read ended: %v", p.id, err)
				}
			}
			return
		}
		util.Stats.AddRecv(len(pkt.Payload))

		select {
		case p.inbox <- pkt:
		case <-p.ctx.Done():
			return
		default:
			util.LogDebug("[%s] inbox full, dropping packet %d", p.id, pkt.SequenceNumber)
		}
	}
}

// cleanup releases the sink exactly once, whichever side exits first.
func (p *player) cleanup() {
	p.closeOnce.Do(func() {
		p.cancel()
		if err := p.sink.Close(); err != nil {
			util.LogDebug("[%s] closing sink: %v", p.id, err)
		}
		if p.path != "" {
			util.LogInfo("recorded remote %s track to %s", p.kind, p.path)
		}
		close(p.done)
	})
}

func (p *player) stop() {
	p.cancel()
	<-p.done
}
