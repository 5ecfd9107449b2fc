// Package signaling drives one manual offer/answer/ICE exchange. The human
// operator is the signaling channel: descriptions and candidate batches are
// written into text buffers for relay, and relayed text pasted into the same
// buffers is consumed from there.
package signaling

import (
	"context"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/transport"
)

// Connection is the WebRTC capability the coordinator drives.
// *transport.Transport is the production implementation.
type Connection interface {
	AddTrack(track webrtc.TrackLocal) error
	CreateOffer(opts transport.OfferOptions) (webrtc.SessionDescription, error)
	CreateAnswer() (webrtc.SessionDescription, error)
	SetLocalDescription(sdp webrtc.SessionDescription) error
	SetRemoteDescription(sdp webrtc.SessionDescription) error
	AddICECandidate(candidate webrtc.ICECandidateInit) error
	OnEvent(fn func(transport.Event))
	Close() error
}

var _ Connection = (*transport.Transport)(nil)

// ConnectFunc creates a fresh connection for one attempt.
type ConnectFunc func(ctx context.Context) (Connection, error)

// MediaDevices acquires local streams. *media.Devices implements it.
type MediaDevices interface {
	GetUserMedia(ctx context.Context, c media.Constraints) (*media.Stream, error)
}

var _ MediaDevices = (*media.Devices)(nil)

// LocalSurface previews the local stream.
type LocalSurface interface {
	Show(stream *media.Stream)
	Clear()
}

// RemoteSurface plays the inbound tracks once the connection is up.
type RemoteSurface interface {
	Render(stream *media.RemoteStream)
}

// TransportConnector adapts transport.NewTransport to a ConnectFunc.
func TransportConnector(api *webrtc.API, iceServers []webrtc.ICEServer) ConnectFunc {
	return func(ctx context.Context) (Connection, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return transport.NewTransport(api, iceServers)
	}
}
