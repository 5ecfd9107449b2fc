package signaling

// State is the coordinator's position in the exchange. The order of the
// constants is the order of progress.
type State int

const (
	Idle State = iota
	MediaReady
	ConnectionOpen
	OfferCreated
	OfferAccepted
	AnswerApplied
	Connected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case MediaReady:
		return "media-ready"
	case ConnectionOpen:
		return "connection-open"
	case OfferCreated:
		return "offer-created"
	case OfferAccepted:
		return "offer-accepted"
	case AnswerApplied:
		return "answer-applied"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Role is which half of the handshake this instance plays. It is fixed by
// the first offer action of an attempt.
type Role int

const (
	RoleUnset Role = iota
	Caller
	Callee
)

func (r Role) String() string {
	switch r {
	case Caller:
		return "caller"
	case Callee:
		return "callee"
	default:
		return "unset"
	}
}
