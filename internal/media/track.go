package media

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/util"
)

// Track is a local media track that can be attached to a peer connection
// and stopped by its owning stream.
type Track interface {
	webrtc.TrackLocal
	Stop()
}

// LocalTrack pumps samples from a Source into a pion sample track. It is
// the capture side of one input device.
type LocalTrack struct {
	*webrtc.TrackLocalStaticSample

	device DeviceInfo
	src    Source

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	onStop   func()
}

var _ Track = (*LocalTrack)(nil)

// newLocalTrack wraps src in a sample track and starts the pump goroutine.
// onStop runs once after the pump has exited and the source is closed.
func newLocalTrack(device DeviceInfo, src Source, streamID string, onStop func()) (*LocalTrack, error) {
	sample, err := webrtc.NewTrackLocalStaticSample(src.Codec(), uuid.NewString(), streamID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &LocalTrack{
		TrackLocalStaticSample: sample,
		device:                 device,
		src:                    src,
		cancel:                 cancel,
		done:                   make(chan struct{}),
		onStop:                 onStop,
	}

	go t.pump(ctx)

	return t, nil
}

// Device returns the input device this track captures from.
func (t *LocalTrack) Device() DeviceInfo { return t.device }

// Done is closed once the track is stopped and its source released.
func (t *LocalTrack) Done() <-chan struct{} { return t.done }

// Stop ends capture and releases the device. Safe to call multiple times;
// it returns after the source is closed.
func (t *LocalTrack) Stop() {
	t.stopOnce.Do(t.cancel)
	<-t.done
}

// pump is the single-writer goroutine. Samples are paced by their own
// duration so the far side receives them close to real time. Writing to a
// track that is not bound to any connection is a no-op.
func (t *LocalTrack) pump(ctx context.Context) {
	defer func() {
		if err := t.src.Close(); err != nil {
			util.LogDebug("closing %s source: %v", t.device.ID, err)
		}
		if t.onStop != nil {
			t.onStop()
		}
		close(t.done)
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}

		sample, err := t.src.Next()
		if err != nil {
			util.LogError("reading %s failed: %v", t.device.ID, err)
			return
		}

		if err := t.WriteSample(sample); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			util.LogError("writing %s sample failed: %v", t.device.ID, err)
			return
		}
		util.Stats.AddSent(len(sample.Data))

		timer.Reset(sample.Duration)
	}
}
