package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

const envICEServersJSON = "PASTECALL_ICE_SERVERS_JSON"

// iceServers resolves the ICE server list. A JSON list in the environment
// wins over the -stun convenience flag.
func iceServers(lookup func(string) (string, bool), stunURLs string) ([]webrtc.ICEServer, error) {
	if raw, ok := lookup(envICEServersJSON); ok && strings.TrimSpace(raw) != "" {
		servers, err := ParseICEServersJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envICEServersJSON, err)
		}
		return servers, nil
	}
	return ParseSTUNURLs(stunURLs)
}

type iceServerJSON struct {
	URLs       stringOrStringSlice `json:"urls"`
	Username   string              `json:"username,omitempty"`
	Credential string              `json:"credential,omitempty"`
}

type stringOrStringSlice []string

func (s *stringOrStringSlice) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*s = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// ParseICEServersJSON parses an RTCConfiguration-style iceServers list, e.g.
//
//	[{"urls":"stun:stun.l.google.com:19302"},{"urls":["turn:t.example:3478"],"username":"u","credential":"p"}]
func ParseICEServersJSON(raw string) ([]webrtc.ICEServer, error) {
	var servers []iceServerJSON
	if err := json.Unmarshal([]byte(raw), &servers); err != nil {
		return nil, err
	}

	out := make([]webrtc.ICEServer, 0, len(servers))
	for i, server := range servers {
		var urls []string
		for _, u := range server.URLs {
			if err := checkICEURL(u); err != nil {
				return nil, fmt.Errorf("iceServers[%d]: %w", i, err)
			}
			urls = append(urls, strings.TrimSpace(u))
		}
		if len(urls) == 0 {
			return nil, fmt.Errorf("iceServers[%d]: urls must not be empty", i)
		}
		out = append(out, webrtc.ICEServer{
			URLs:       urls,
			Username:   strings.TrimSpace(server.Username),
			Credential: server.Credential,
		})
	}
	return out, nil
}

// ParseSTUNURLs turns a comma-separated URL list into a single ICE server.
func ParseSTUNURLs(raw string) ([]webrtc.ICEServer, error) {
	var urls []string
	for _, u := range strings.Split(raw, ",") {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if !strings.HasPrefix(u, "stun:") && !strings.HasPrefix(u, "stuns:") {
			return nil, fmt.Errorf("invalid STUN URL %q", u)
		}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, nil
	}
	return []webrtc.ICEServer{{URLs: urls}}, nil
}

func checkICEURL(u string) error {
	u = strings.TrimSpace(u)
	for _, scheme := range []string{"stun:", "stuns:", "turn:", "turns:"} {
		if strings.HasPrefix(u, scheme) {
			return nil
		}
	}
	return fmt.Errorf("invalid ICE URL %q", u)
}
