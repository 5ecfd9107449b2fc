package transport

import (
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/intervalpli"
	"github.com/pion/logging"
	transportpkg "github.com/pion/transport/v4"
	"github.com/pion/webrtc/v4"
)

// APIOptions tunes the pion API shared by every connection of a process.
type APIOptions struct {
	// LoggerFactory receives pion's internal logs. Nil keeps pion's default.
	LoggerFactory logging.LoggerFactory
	// Net replaces the OS network stack, e.g. with a vnet for tests.
	Net transportpkg.Net
	// DisablePLI turns off the periodic keyframe requests on received video.
	DisablePLI bool
}

// NewAPI builds a pion API with the default codecs and interceptors plus a
// periodic PLI sender, so recordings of received video recover from loss
// without waiting for the remote encoder's next natural keyframe.
func NewAPI(opts APIOptions) (*webrtc.API, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}

	i := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, i); err != nil {
		return nil, err
	}

	if !opts.DisablePLI {
		pli, err := intervalpli.NewReceiverInterceptor()
		if err != nil {
			return nil, err
		}
		i.Add(pli)
	}

	se := webrtc.SettingEngine{}
	if opts.LoggerFactory != nil {
		se.LoggerFactory = opts.LoggerFactory
	}
	if opts.Net != nil {
		se.SetNet(opts.Net)
	}

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithInterceptorRegistry(i),
		webrtc.WithSettingEngine(se),
	), nil
}
