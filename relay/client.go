package relay

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// ValidSign matches a well-formed identity token: exactly three uppercase letters.
var ValidSign = regexp.MustCompile(`^[A-Z]{3}$`)

// State represents a client's position in its lifecycle.
type State int

const (
	// AwaitingPrompt means the client is online but has no contact yet.
	AwaitingPrompt State = iota
	// Prompted means the client has a contact and a pending prompt/response pair.
	Prompted
	// DisconnectedGrace means the handle closed and the grace timer is armed.
	DisconnectedGrace
	// Lapsed means the grace window expired; dependents have been released.
	Lapsed
)

// String returns the log string for a State.
func (s State) String() string {
	switch s {
	case AwaitingPrompt:
		return "awaiting_prompt"
	case Prompted:
		return "prompted"
	case DisconnectedGrace:
		return "disconnected_grace"
	case Lapsed:
		return "lapsed"
	default:
		return "unknown"
	}
}

// Pair is one prompt/response challenge from a codebook.
// On the wire it is a two-element array: ["prompt", "response"].
type Pair struct {
	Prompt   string
	Response string
}

// MarshalJSON encodes the pair as ["prompt", "response"].
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Prompt, p.Response})
}

// UnmarshalJSON decodes a ["prompt", "response"] array.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var arr [2]string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("codebook pair: %w", err)
	}
	p.Prompt = arr[0]
	p.Response = arr[1]
	return nil
}

// Client is one participant, created at first claim and kept for the process
// lifetime. Disconnection is a state transition, not destruction; a reconnect
// reattaches a new send handle to the same Client.
//
// All mutable fields are guarded by the owning Session's mutex.
type Client struct {
	// Sign is the identity token: three uppercase letters, unique, immutable.
	Sign string

	// send is the connection handle: a buffered channel drained by the
	// transport's write pump. Nil while offline; replaced wholesale on
	// reconnect. The client is online iff send is non-nil.
	send chan []byte

	// codebook is the client's full challenge list, assigned once at
	// creation from the external source, keyed by join order.
	codebook []Pair

	// remaining is a shuffled copy of codebook, pop-consumed each time the
	// scheduler pairs another client with this one. Strictly shrinking.
	remaining []Pair

	state State

	// contact supplies this client's active prompt. Directed; not
	// necessarily symmetric.
	contact *Client

	// currentPrompt/currentResponse were popped from contact.remaining.
	currentPrompt   string
	currentResponse string

	// activeChat is the client's latest chat item; inbound chat without a
	// newline marker overwrites its content.
	activeChat *ChatItem

	// Fairness accounting, maintained by chooseFair.
	chosenCount   int
	attemptCount  int
	selectionRate float64

	// Grace-timer bookkeeping. graceGen increments on every arm and cancel
	// so a timer that fires late observes a stale generation and no-ops.
	graceGen    int
	graceCancel chan struct{}
}

// online reports whether a connection handle is attached.
func (c *Client) online() bool {
	return c.send != nil
}
