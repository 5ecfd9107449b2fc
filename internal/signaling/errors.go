package signaling

import (
	"errors"

	"github.com/1ureka/pastecall/internal/protocol"
)

var (
	ErrDeviceAcquisition      = errors.New("device acquisition failed")
	ErrDescriptionNegotiation = errors.New("description negotiation failed")
	ErrApplyDescription       = errors.New("applying description failed")
	ErrApplyCandidate         = errors.New("applying ICE candidate failed")
	ErrRoleUnset              = errors.New("session role is not set")
	ErrInvalidState           = errors.New("operation not allowed in current state")

	// ErrMalformedRelayPayload is returned when a pasted ICE batch is not a
	// JSON array of candidates.
	ErrMalformedRelayPayload = protocol.ErrMalformedPayload
)
