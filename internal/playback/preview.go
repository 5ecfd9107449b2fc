package playback

import (
	"sync"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/util"
)

// Preview is the local surface. A terminal cannot show video, so it reports
// which devices are live and keeps the current stream for status queries.
type Preview struct {
	mu     sync.Mutex
	stream *media.Stream
}

func NewPreview() *Preview { return &Preview{} }

// Show attaches a stream to the preview.
func (p *Preview) Show(stream *media.Stream) {
	p.mu.Lock()
	p.stream = stream
	p.mu.Unlock()

	for _, t := range stream.Tracks() {
		if lt, ok := t.(*media.LocalTrack); ok {
			util.LogInfo("local %s: %s", t.Kind(), lt.Device().Label)
			continue
		}
		util.LogInfo("local %s track %s", t.Kind(), t.ID())
	}
}

// Clear detaches the current stream.
func (p *Preview) Clear() {
	p.mu.Lock()
	had := p.stream != nil
	p.stream = nil
	p.mu.Unlock()

	if had {
		util.LogDebug("local preview cleared")
	}
}

// Stream returns the stream on the preview, or nil.
func (p *Preview) Stream() *media.Stream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream
}
