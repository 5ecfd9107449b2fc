package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/1ureka/pastecall/internal/util"
)

var (
	// ErrDeviceNotFound is returned when no device of a requested kind exists.
	ErrDeviceNotFound = errors.New("requested device not found")
	// ErrDeviceBusy is returned when a device is held by a live track.
	ErrDeviceBusy = errors.New("device is busy")
)

// Built-in device IDs.
const (
	SilenceDeviceID = "silence"
	PatternDeviceID = "pattern"
)

// Constraints selects the input devices for one acquisition. Device IDs are
// preferences: an empty or unknown ID falls back to the first device of
// that kind.
type Constraints struct {
	AudioDeviceID string
	VideoDeviceID string
}

type device struct {
	info DeviceInfo
	open func() (Source, error)
}

// Devices is the registry of input devices. Each device can feed at most
// one live track at a time.
type Devices struct {
	mu      sync.Mutex
	devices []device
	inUse   map[string]bool
}

// NewDevices returns a registry holding the built-in silence and test
// pattern devices.
func NewDevices() *Devices {
	d := &Devices{inUse: make(map[string]bool)}
	d.Register(DeviceInfo{ID: SilenceDeviceID, Kind: AudioInput, Label: "Silence (Opus)"}, func() (Source, error) {
		return newSilenceSource(), nil
	})
	d.Register(DeviceInfo{ID: PatternDeviceID, Kind: VideoInput, Label: "Test pattern (VP8)"}, func() (Source, error) {
		return newPatternSource(), nil
	})
	return d
}

// Register adds a device. A later registration with the same ID replaces
// the earlier one.
func (d *Devices) Register(info DeviceInfo, open func() (Source, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.devices {
		if d.devices[i].info.ID == info.ID {
			d.devices[i] = device{info: info, open: open}
			return
		}
	}
	d.devices = append(d.devices, device{info: info, open: open})
}

// AddAudioFile registers an Ogg/Opus file as an audio input.
func (d *Devices) AddAudioFile(path string) {
	d.Register(DeviceInfo{ID: "file:" + path, Kind: AudioInput, Label: filepath.Base(path)}, func() (Source, error) {
		return openOggSource(path)
	})
}

// AddVideoFile registers an IVF file as a video input.
func (d *Devices) AddVideoFile(path string) {
	d.Register(DeviceInfo{ID: "file:" + path, Kind: VideoInput, Label: filepath.Base(path)}, func() (Source, error) {
		return openIVFSource(path)
	})
}

// Enumerate lists the registered devices in registration order.
func (d *Devices) Enumerate() []DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]DeviceInfo, len(d.devices))
	for i, dev := range d.devices {
		out[i] = dev.info
	}
	return out
}

// GetUserMedia opens one audio and one video device and returns them as a
// new stream. On failure nothing stays open.
func (d *Devices) GetUserMedia(ctx context.Context, c Constraints) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	audio, err := d.claim(AudioInput, c.AudioDeviceID)
	if err != nil {
		return nil, err
	}
	video, err := d.claim(VideoInput, c.VideoDeviceID)
	if err != nil {
		d.release(audio.info.ID)
		return nil, err
	}

	stream := &Stream{id: uuid.NewString()}

	for _, dev := range []device{audio, video} {
		t, err := d.openTrack(dev, stream.id)
		if err != nil {
			stream.Stop()
			// Devices not yet turned into tracks are still claimed.
			for _, rest := range []device{audio, video} {
				if !stream.has(rest.info.ID) {
					d.release(rest.info.ID)
				}
			}
			return nil, fmt.Errorf("opening %s: %w", dev.info.ID, err)
		}
		stream.tracks = append(stream.tracks, t)
	}

	return stream, nil
}

func (d *Devices) openTrack(dev device, streamID string) (*LocalTrack, error) {
	src, err := dev.open()
	if err != nil {
		return nil, err
	}
	id := dev.info.ID
	t, err := newLocalTrack(dev.info, src, streamID, func() { d.release(id) })
	if err != nil {
		src.Close()
		return nil, err
	}
	return t, nil
}

// claim picks the requested device of kind, falling back to the first one,
// and marks it in use.
func (d *Devices) claim(kind Kind, id string) (device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var chosen *device
	for i := range d.devices {
		dev := &d.devices[i]
		if dev.info.Kind != kind {
			continue
		}
		if dev.info.ID == id {
			chosen = dev
			break
		}
		if chosen == nil {
			chosen = dev
		}
	}
	if chosen == nil {
		return device{}, fmt.Errorf("%w: no %s", ErrDeviceNotFound, kind)
	}
	if id != "" && chosen.info.ID != id {
		util.LogWarning("%s %q not found, using %q", kind, id, chosen.info.ID)
	}
	if d.inUse[chosen.info.ID] {
		return device{}, fmt.Errorf("%w: %s", ErrDeviceBusy, chosen.info.ID)
	}

	d.inUse[chosen.info.ID] = true
	return *chosen, nil
}

func (d *Devices) release(id string) {
	d.mu.Lock()
	delete(d.inUse, id)
	d.mu.Unlock()
}

func (s *Stream) has(deviceID string) bool {
	for _, t := range s.tracks {
		if lt, ok := t.(*LocalTrack); ok && lt.device.ID == deviceID {
			return true
		}
	}
	return false
}
