// Package board mirrors the coordinator's text buffers over a PIN-protected
// WebSocket. Watchers receive every change; a connected peer can also paste
// text into a buffer. It carries what the operator would copy by hand and
// never negotiates anything itself.
package board

// MessageType identifies the kind of board message.
type MessageType string

const (
	MsgTypeSDP   MessageType = "sdp"
	MsgTypeICE   MessageType = "ice"
	MsgTypeState MessageType = "state"
)

// Message is the JSON structure exchanged over the WebSocket.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
	// ID is the fingerprint of Text, so both operators can compare blobs.
	ID string `json:"id,omitempty"`
}
