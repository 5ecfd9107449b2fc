// Package ui is the terminal front end: the button table that decides which
// actions are offered, and the interactive prompt loop around the
// coordinator.
package ui

import "sync"

// Button is one user action of the exchange.
type Button int

const (
	GetMedia Button = iota
	CreatePeerConnection
	CreateOffer
	AcceptOffer
	SetAnswer
	SetICE
)

var buttonLabels = map[Button]string{
	GetMedia:             "Get media",
	CreatePeerConnection: "Create peer connection",
	CreateOffer:          "Create offer",
	AcceptOffer:          "Accept offer",
	SetAnswer:            "Set answer",
	SetICE:               "Set ICE candidates",
}

func (b Button) String() string { return buttonLabels[b] }

// phase says when a button's transition is applied relative to its action.
type phase int

const (
	before    phase = iota // on press, whatever the outcome
	onSuccess              // only when the action succeeded
	after                  // after the action, even on failure
)

type transition struct {
	when    phase
	disable []Button
	enable  []Button
}

// transitions is the enable/disable table of the exchange. Transitions are
// never rolled back, so after a failure the offered buttons may no longer
// match the coordinator state.
var transitions = map[Button]transition{
	GetMedia:             {when: before, disable: []Button{GetMedia}, enable: []Button{CreatePeerConnection}},
	CreatePeerConnection: {when: before, disable: []Button{CreatePeerConnection}, enable: []Button{CreateOffer, AcceptOffer}},
	CreateOffer:          {when: onSuccess, disable: []Button{CreateOffer, AcceptOffer}, enable: []Button{SetAnswer}},
	AcceptOffer:          {when: onSuccess, disable: []Button{CreateOffer, AcceptOffer}, enable: []Button{SetAnswer}},
	SetAnswer:            {when: after, disable: []Button{SetAnswer}, enable: []Button{SetICE}},
	SetICE:               {when: onSuccess, disable: []Button{SetICE}},
}

// Controls tracks which buttons are enabled. Only Get media starts enabled.
type Controls struct {
	mu      sync.Mutex
	enabled map[Button]bool
}

func NewControls() *Controls {
	return &Controls{enabled: map[Button]bool{GetMedia: true}}
}

// Enabled reports whether b can be pressed.
func (c *Controls) Enabled(b Button) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled[b]
}

// EnabledButtons lists the enabled buttons in exchange order.
func (c *Controls) EnabledButtons() []Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Button
	for b := GetMedia; b <= SetICE; b++ {
		if c.enabled[b] {
			out = append(out, b)
		}
	}
	return out
}

// Press runs action for b and applies b's transition at its phase. The
// action's error is returned unchanged. Pressing a disabled button still
// runs the action, as device changes do for Get media.
func (c *Controls) Press(b Button, action func() error) error {
	tr := transitions[b]
	if tr.when == before {
		c.apply(tr)
	}

	err := action()

	if tr.when == after || (tr.when == onSuccess && err == nil) {
		c.apply(tr)
	}
	return err
}

func (c *Controls) apply(tr transition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range tr.disable {
		c.enabled[b] = false
	}
	for _, b := range tr.enable {
		c.enabled[b] = true
	}
}
