package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media/ivfwriter"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"

	"github.com/1ureka/pastecall/internal/media"
)

// Sink consumes the ordered packets of one remote track.
type Sink interface {
	WriteRTP(pkt *rtp.Packet) error
	Close() error
}

var (
	_ Sink = (*ivfwriter.IVFWriter)(nil)
	_ Sink = (*oggwriter.OggWriter)(nil)
)

type discardSink struct{}

func (discardSink) WriteRTP(*rtp.Packet) error { return nil }
func (discardSink) Close() error               { return nil }

// openSink picks a recorder for the track's codec when dir is set. Codecs
// without a container writer, and an empty dir, discard packets.
func openSink(dir string, track media.RemoteTrack) (Sink, string, error) {
	if dir == "" {
		return discardSink{}, "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}

	mime := track.Codec().MimeType
	base := filepath.Join(dir, sanitize(track.StreamID())+"-"+sanitize(track.ID()))

	switch {
	case strings.EqualFold(mime, webrtc.MimeTypeVP8), strings.EqualFold(mime, webrtc.MimeTypeAV1):
		path := base + ".ivf"
		w, err := ivfwriter.New(path, ivfwriter.WithCodec(mime))
		if err != nil {
			return nil, "", fmt.Errorf("creating %s: %w", path, err)
		}
		return w, path, nil

	case strings.EqualFold(mime, webrtc.MimeTypeOpus):
		path := base + ".ogg"
		w, err := oggwriter.New(path, track.Codec().ClockRate, channels(track.Codec()))
		if err != nil {
			return nil, "", fmt.Errorf("creating %s: %w", path, err)
		}
		return w, path, nil

	default:
		return discardSink{}, "", nil
	}
}

func channels(c webrtc.RTPCodecParameters) uint16 {
	if c.Channels == 0 {
		return 2
	}
	return c.Channels
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
