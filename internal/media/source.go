package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/ivfreader"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
)

// Source produces encoded media samples for a local track.
type Source interface {
	Codec() webrtc.RTPCodecCapability
	Next() (media.Sample, error)
	Close() error
}

var (
	opusCodec = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}
	vp8Codec  = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
)

const (
	opusFrameDuration    = 20 * time.Millisecond
	patternFrameDuration = time.Second / 30
)

// ---------------------------------------------------------------------------
// Synthetic sources
// ---------------------------------------------------------------------------

// opusSilence is a single 20ms Opus frame encoding digital silence.
var opusSilence = []byte{0xf8, 0xff, 0xfe}

type silenceSource struct{}

func newSilenceSource() Source { return silenceSource{} }

func (silenceSource) Codec() webrtc.RTPCodecCapability { return opusCodec }
func (silenceSource) Close() error                     { return nil }

func (silenceSource) Next() (media.Sample, error) {
	return media.Sample{Data: append([]byte(nil), opusSilence...), Duration: opusFrameDuration}, nil
}

// patternSource emits VP8 key-frame shaped payloads at 30 fps. The frames
// carry a valid key-frame tag and start code so recorders treat them as
// decodable boundaries, but the body is a counter, not real video.
type patternSource struct {
	frame uint32
}

func newPatternSource() Source { return &patternSource{} }

func (*patternSource) Codec() webrtc.RTPCodecCapability { return vp8Codec }
func (*patternSource) Close() error                     { return nil }

func (p *patternSource) Next() (media.Sample, error) {
	p.frame++
	data := make([]byte, 64)
	copy(data, []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a, 0x40, 0x01, 0xf0, 0x00}) // 320x240 key frame
	for i := 10; i < len(data); i++ {
		data[i] = byte(p.frame) + byte(i)
	}
	return media.Sample{Data: data, Duration: patternFrameDuration}, nil
}

// ---------------------------------------------------------------------------
// File sources
// ---------------------------------------------------------------------------

// ivfSource plays an IVF file, looping at the end.
type ivfSource struct {
	path     string
	file     *os.File
	reader   *ivfreader.IVFReader
	codec    webrtc.RTPCodecCapability
	frameDur time.Duration
}

func openIVFSource(path string) (Source, error) {
	s := &ivfSource{path: path}
	if err := s.rewind(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ivfSource) rewind() error {
	if s.file != nil {
		s.file.Close()
	}

	f, err := os.Open(s.path)
	if err != nil {
		return err
	}

	reader, header, err := ivfreader.NewWith(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", s.path, err)
	}

	codec, err := ivfCodec(header.FourCC)
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", s.path, err)
	}

	s.file = f
	s.reader = reader
	s.codec = codec
	s.frameDur = patternFrameDuration
	if header.TimebaseDenominator > 0 {
		s.frameDur = time.Duration(float64(time.Second) * float64(header.TimebaseNumerator) / float64(header.TimebaseDenominator))
	}
	return nil
}

func ivfCodec(fourCC string) (webrtc.RTPCodecCapability, error) {
	switch fourCC {
	case "VP80":
		return vp8Codec, nil
	case "VP90":
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP9, ClockRate: 90000}, nil
	case "AV01":
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeAV1, ClockRate: 90000}, nil
	default:
		return webrtc.RTPCodecCapability{}, fmt.Errorf("unsupported IVF codec %q", fourCC)
	}
}

func (s *ivfSource) Codec() webrtc.RTPCodecCapability { return s.codec }

func (s *ivfSource) Next() (media.Sample, error) {
	frame, _, err := s.reader.ParseNextFrame()
	if errors.Is(err, io.EOF) {
		if err := s.rewind(); err != nil {
			return media.Sample{}, err
		}
		frame, _, err = s.reader.ParseNextFrame()
	}
	if err != nil {
		return media.Sample{}, err
	}
	return media.Sample{Data: frame, Duration: s.frameDur}, nil
}

func (s *ivfSource) Close() error { return s.file.Close() }

// oggSource plays an Ogg/Opus file, looping at the end. Sample durations
// follow the granule position deltas.
type oggSource struct {
	path        string
	file        *os.File
	reader      *oggreader.OggReader
	lastGranule uint64
}

func openOggSource(path string) (Source, error) {
	s := &oggSource{path: path}
	if err := s.rewind(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *oggSource) rewind() error {
	if s.file != nil {
		s.file.Close()
	}

	f, err := os.Open(s.path)
	if err != nil {
		return err
	}

	reader, _, err := oggreader.NewWith(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", s.path, err)
	}

	s.file = f
	s.reader = reader
	s.lastGranule = 0
	return nil
}

func (s *oggSource) Codec() webrtc.RTPCodecCapability { return opusCodec }

func (s *oggSource) Next() (media.Sample, error) {
	page, header, err := s.reader.ParseNextPage()
	if errors.Is(err, io.EOF) {
		if err := s.rewind(); err != nil {
			return media.Sample{}, err
		}
		page, header, err = s.reader.ParseNextPage()
	}
	if err != nil {
		return media.Sample{}, err
	}

	var dur time.Duration
	if header.GranulePosition > s.lastGranule {
		samples := header.GranulePosition - s.lastGranule
		dur = time.Duration(float64(samples) / 48000 * float64(time.Second))
	}
	s.lastGranule = header.GranulePosition

	return media.Sample{Data: page, Duration: dur}, nil
}

func (s *oggSource) Close() error { return s.file.Close() }
