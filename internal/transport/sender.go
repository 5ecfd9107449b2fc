package transport

import (
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/pastecall/internal/util"
)

const rtcpBufferSize = 1500

// drainRTCP reads incoming RTCP for one sender until the sender is stopped.
// Interceptors (NACK responder, reports) only see feedback that is read, so
// every attached track needs one of these loops.
func drainRTCP(sender *webrtc.RTPSender, trackID string) {
	buf := make([]byte, rtcpBufferSize)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			util.LogDebug("[%s] RTCP reader stopped: %v", trackID, err)
			return
		}
	}
}
