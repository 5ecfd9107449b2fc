// Package media provides the input devices, local streams and the remote
// stream accumulator used by one call attempt.
package media

import (
	"fmt"

	"github.com/pion/webrtc/v4"
)

// Kind classifies an input device the way enumerateDevices does.
type Kind string

const (
	AudioInput Kind = "audioinput"
	VideoInput Kind = "videoinput"
)

// CodecType maps the device kind onto the RTP media kind.
func (k Kind) CodecType() webrtc.RTPCodecType {
	if k == AudioInput {
		return webrtc.RTPCodecTypeAudio
	}
	return webrtc.RTPCodecTypeVideo
}

// DeviceInfo describes one selectable input device.
type DeviceInfo struct {
	ID    string
	Kind  Kind
	Label string
}

// DisplayLabels returns a label per device, in order. Devices without a
// label are numbered per kind ("Audio 1", "Video 2", ...).
func DisplayLabels(devices []DeviceInfo) []string {
	labels := make([]string, len(devices))
	var audio, video int
	for i, d := range devices {
		switch d.Kind {
		case AudioInput:
			audio++
			labels[i] = d.Label
			if labels[i] == "" {
				labels[i] = fmt.Sprintf("Audio %d", audio)
			}
		case VideoInput:
			video++
			labels[i] = d.Label
			if labels[i] == "" {
				labels[i] = fmt.Sprintf("Video %d", video)
			}
		default:
			labels[i] = d.Label
		}
	}
	return labels
}
