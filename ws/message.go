package ws

import (
	"encoding/json"

	"github.com/catascopic/solstice/relayerrors"
)

// Inbound is the two-variant union of client-to-server messages:
//
//	{"response": "..."}                      — answer the pending prompt
//	{"chat": "...", "newline": true|false}   — chat update
//
// Exactly one of Response and Chat must be present; newline is only valid
// alongside chat. Anything else is a malformed message.
type Inbound struct {
	Response *string `json:"response"`
	Chat     *string `json:"chat"`
	Newline  bool    `json:"newline"`
}

// ParseInbound decodes and validates one inbound payload.
func ParseInbound(data []byte) (Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return Inbound{}, relayerrors.ErrMalformedMessage
	}
	if (msg.Response == nil) == (msg.Chat == nil) {
		return Inbound{}, relayerrors.ErrMalformedMessage
	}
	if msg.Response != nil && msg.Newline {
		return Inbound{}, relayerrors.ErrMalformedMessage
	}
	return msg, nil
}

// errorMsg tells a client one of its messages was rejected. The connection
// stays open; the bad message alone is dropped.
type errorMsg struct {
	Error string `json:"error"`
}
