package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

// NormalizeSDP trims every line of a pasted SDP block and joins the lines
// with CRLF. Terminals and chat clients routinely drop the CR or pad lines,
// while the SDP parser requires exact CRLF-terminated lines.
func NormalizeSDP(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\r\n")
}

// EncodeBatch serializes a batch as a compact JSON array. An empty batch
// encodes as "[]".
func EncodeBatch(b Batch) (string, error) {
	if b == nil {
		b = Batch{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeBatch parses relayed text as a JSON array of candidate objects.
// Anything else (empty text, null, a bare object, trailing garbage) fails
// with ErrMalformedPayload.
func DecodeBatch(text string) (Batch, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of ICE candidates", ErrMalformedPayload)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	batch := make(Batch, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedPayload, i)
		}
		var c webrtc.ICECandidateInit
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedPayload, i, err)
		}
		batch = append(batch, c)
	}
	return batch, nil
}

// AppendCandidate adds one candidate to the batch held in text and returns
// the re-serialized batch. Empty text starts a new batch.
func AppendCandidate(text string, c webrtc.ICECandidateInit) (string, error) {
	var batch Batch
	if strings.TrimSpace(text) != "" {
		var err error
		if batch, err = DecodeBatch(text); err != nil {
			return "", err
		}
	}
	return EncodeBatch(append(batch, c))
}
