// Package protocol defines the text payloads relayed by hand between two
// instances: SDP blocks and ICE candidate batches.
package protocol

import (
	"errors"

	"github.com/pion/webrtc/v4"
)

// ErrMalformedPayload is returned when a relayed ICE batch is not a JSON
// array of candidate objects.
var ErrMalformedPayload = errors.New("malformed relay payload")

// Batch is an ordered set of ICE candidates relayed as a single JSON array.
// Each element is the JSON form of RTCIceCandidateInit.
type Batch []webrtc.ICECandidateInit

// Description builds a session description of the given type from relayed
// SDP text, normalizing line endings on the way.
func Description(typ webrtc.SDPType, text string) webrtc.SessionDescription {
	return webrtc.SessionDescription{Type: typ, SDP: NormalizeSDP(text)}
}
