package signaling

import (
	"context"
	"fmt"

	"github.com/1ureka/pastecall/internal/protocol"
	"github.com/1ureka/pastecall/internal/util"
)

// ApplyCandidates adds every candidate of the batch in the ICE buffer to the
// connection, in order and one at a time. A malformed batch adds nothing.
// The first failed addition stops the batch; the returned count says how
// many were added before it.
func (c *Coordinator) ApplyCandidates(ctx context.Context) (int, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.require("apply ICE candidates",
		ConnectionOpen, OfferCreated, OfferAccepted, AnswerApplied, Connected); err != nil {
		return 0, err
	}
	conn := c.connection()

	batch, err := protocol.DecodeBatch(c.ice.Get())
	if err != nil {
		return 0, err
	}

	for i, cand := range batch {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := conn.AddICECandidate(cand); err != nil {
			return i, fmt.Errorf("%w: candidate %d of %d: %w", ErrApplyCandidate, i+1, len(batch), err)
		}
	}

	util.LogInfo("applied %d remote ICE candidates", len(batch))
	return len(batch), nil
}
