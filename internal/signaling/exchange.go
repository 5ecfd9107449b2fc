package signaling

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/protocol"
	"github.com/1ureka/pastecall/internal/transport"
	"github.com/1ureka/pastecall/internal/util"
)

// offerOptions asks for both kinds of media even when the matching local
// device produced no track.
var offerOptions = transport.OfferOptions{ReceiveAudio: true, ReceiveVideo: true}

// CreateOffer makes this instance the caller: it creates an offer, sets it
// as the local description and exposes it in the SDP buffer.
func (c *Coordinator) CreateOffer(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.require("create offer", ConnectionOpen); err != nil {
		return err
	}
	conn := c.connection()

	offer, err := conn.CreateOffer(offerOptions)
	if err != nil {
		return fmt.Errorf("%w: creating offer: %w", ErrDescriptionNegotiation, err)
	}
	if err := conn.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("%w: setting local offer: %w", ErrApplyDescription, err)
	}

	c.sdp.Set(offer.SDP)
	c.setRole(Caller)
	c.advance(OfferCreated)
	util.LogInfo("offer created (%s), relay the SDP to the callee", util.BlobID(offer.SDP))
	return nil
}

// AcceptOffer makes this instance the callee: the SDP buffer is applied as
// the remote offer and replaced with a freshly created answer. The answer
// is not set as the local description here; ApplyAnswer does that.
func (c *Coordinator) AcceptOffer(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.require("accept offer", ConnectionOpen); err != nil {
		return err
	}
	conn := c.connection()

	offer := protocol.Description(webrtc.SDPTypeOffer, c.sdp.Get())
	if err := conn.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("%w: setting remote offer: %w", ErrApplyDescription, err)
	}

	answer, err := conn.CreateAnswer()
	if err != nil {
		return fmt.Errorf("%w: creating answer: %w", ErrDescriptionNegotiation, err)
	}

	c.sdp.Set(answer.SDP)
	c.setRole(Callee)
	c.advance(OfferAccepted)
	util.LogInfo("offer accepted, answer created (%s), relay the SDP to the caller", util.BlobID(answer.SDP))
	return nil
}

// ApplyAnswer applies the answer in the SDP buffer. The caller sets it as
// the remote description; the callee sets it as its own local description.
func (c *Coordinator) ApplyAnswer(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	role := c.Role()
	if role == RoleUnset {
		return ErrRoleUnset
	}
	if err := c.require("apply answer", OfferCreated, OfferAccepted); err != nil {
		return err
	}
	conn := c.connection()

	answer := protocol.Description(webrtc.SDPTypeAnswer, c.sdp.Get())

	var err error
	switch role {
	case Caller:
		err = conn.SetRemoteDescription(answer)
	case Callee:
		err = conn.SetLocalDescription(answer)
	}
	if err != nil {
		return fmt.Errorf("%w: setting answer as %s: %w", ErrApplyDescription, role, err)
	}

	c.advance(AnswerApplied)
	util.LogInfo("answer applied as %s", role)
	return nil
}

func (c *Coordinator) setRole(r Role) {
	c.mu.Lock()
	c.role = r
	c.mu.Unlock()
}
