package relay

import (
	"encoding/json"
	"log/slog"
)

// Outbound payload shapes. Every message is a small JSON object whose keys
// identify it; there is no envelope type field.

// welcomeMsg hydrates a (re)joining client while the goal is unmet.
type welcomeMsg struct {
	Codebook []Pair        `json:"codebook"`
	Goal     int           `json:"goal"`
	Backlog  []BacklogItem `json:"backlog"`
	Prompt   string        `json:"prompt,omitempty"`
	MyChat   string        `json:"myChat,omitempty"`
}

// victoryWelcomeMsg hydrates a client that (re)connects after the goal is met.
type victoryWelcomeMsg struct {
	Victory json.RawMessage `json:"victory"`
	Backlog []BacklogItem   `json:"backlog"`
}

// solvedMsg acknowledges a correct response to the solver.
type solvedMsg struct {
	Prompt   string `json:"prompt,omitempty"`
	Feedback bool   `json:"feedback"`
	Goal     int    `json:"goal"`
}

// feedbackMsg rejects an incorrect response; sent to the solver only.
type feedbackMsg struct {
	Feedback bool `json:"feedback"`
}

// teamworkMsg tells a client that its challenge was just solved, and by whom.
type teamworkMsg struct {
	Teamwork string `json:"teamwork"`
}

// goalMsg announces the new countdown value to bystanders.
type goalMsg struct {
	Goal int `json:"goal"`
}

// promptMsg pushes a freshly assigned prompt outside the solve flow (unpaired
// sweep, dependent release after a lapse).
type promptMsg struct {
	Prompt string `json:"prompt"`
}

// victoryMsg broadcasts the opaque victory document on the goal edge.
type victoryMsg struct {
	Victory json.RawMessage `json:"victory"`
}

// chatMsg broadcasts one chat update.
type chatMsg struct {
	Chat chatBody `json:"chat"`
}

type chatBody struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Newline bool   `json:"newline,omitempty"`
}

// encode marshals a payload, logging instead of failing: a payload that cannot
// be marshaled is a programming error, never a client's fault.
func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling outbound payload", "tag", "session", "err", err)
		return nil
	}
	return data
}
