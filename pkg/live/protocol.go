// Package live bridges a server-side navigation engine to a browser over
// WebSocket. The engine is authoritative: it runs on the server per
// session, and the browser mirrors its history stack by applying patches.
// Browser-initiated activity (link clicks, popstate) flows the other way
// as client messages.
package live

import (
	"encoding/json"
	"fmt"
)

// Server to client patch operations.
const (
	PatchPush    = "push"
	PatchReplace = "replace"
	PatchBack    = "back"
	PatchForward = "forward"
	PatchPong    = "pong"
)

// Client to server message types.
const (
	MsgNavigate = "navigate"
	MsgPopState = "popstate"
	MsgPing     = "ping"
)

// Patch is a server to client history mutation. The client applies it to
// the real History API verbatim. Seq increases by one per patch so the
// client can detect gaps after a reconnect.
type Patch struct {
	Op   string `json:"op"`
	Seq  uint64 `json:"seq"`
	Path string `json:"path,omitempty"`

	// State is the history state object attached by push and replace.
	State any `json:"state,omitempty"`
}

// ClientMessage is a browser to server message.
type ClientMessage struct {
	Type string `json:"type"`

	// Path is set for navigate messages.
	Path string `json:"path,omitempty"`

	// Replace requests replaceState semantics for a navigate message.
	Replace bool `json:"replace,omitempty"`

	// Delta is the popstate pointer movement, negative for back.
	Delta int `json:"delta,omitempty"`

	// Path of the entry the browser landed on after a popstate.
	// The server trusts its own stack and uses this only for logging.
	Landed string `json:"landed,omitempty"`
}

// EncodePatch serializes a patch for the wire.
func EncodePatch(p Patch) ([]byte, error) {
	return json.Marshal(p)
}

// DecodeClientMessage parses and validates a client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}

	switch msg.Type {
	case MsgNavigate:
		if msg.Path == "" {
			return ClientMessage{}, fmt.Errorf("navigate message without path")
		}
	case MsgPopState:
		if msg.Delta == 0 {
			return ClientMessage{}, fmt.Errorf("popstate message without delta")
		}
	case MsgPing:
	default:
		return ClientMessage{}, fmt.Errorf("unknown client message type %q", msg.Type)
	}
	return msg, nil
}
