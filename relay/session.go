package relay

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/catascopic/solstice/config"
	"github.com/catascopic/solstice/relayerrors"
	"github.com/catascopic/solstice/wsutil"
)

// CodebookSource supplies each client's private challenge list, keyed by join
// order. Documents are opaque to the session: fetched once, never mutated.
type CodebookSource interface {
	Codebook(joinOrder int) []Pair
}

// EventSink records relay milestones for offline analysis. Optional; may be
// nil. Implementations must not block the caller for long: the session invokes
// them on their own goroutines.
type EventSink interface {
	RecordConnect(sign string, reconnect bool)
	RecordSolve(solver, contact, prompt string, goalAfter int)
	RecordVictory(goalTarget int)
}

// Session is the coordination engine: the identity registry, the fairness
// matcher, the chat transcript, and the goal tracker, behind one mutex.
//
// A single lock guards the registry map, the insertion-order slice, every
// client's mutable fields, the chat log, and the goal counter. Outbound
// delivery goes through buffered per-connection channels drained outside the
// lock, so no network I/O ever happens while it is held.
type Session struct {
	mu      sync.Mutex
	clients map[string]*Client
	order   []*Client

	chat    *ChatLog
	goal    *GoalTracker
	target  int
	source  CodebookSource
	victory json.RawMessage
	grace   time.Duration
	events  EventSink
}

// NewSession creates a session. victory is the opaque document broadcast on
// the goal edge; events may be nil.
func NewSession(cfg *config.Config, source CodebookSource, victory json.RawMessage, events EventSink) *Session {
	return &Session{
		clients: make(map[string]*Client),
		chat:    NewChatLog(),
		goal:    NewGoalTracker(cfg.GoalTarget),
		target:  cfg.GoalTarget,
		source:  source,
		victory: victory,
		grace:   time.Duration(cfg.GracePeriodMS) * time.Millisecond,
		events:  events,
	}
}

// Claim registers a connection under sign, with send as its outbound handle.
//
// A malformed sign fails with ErrInvalidIdentity and an already-online sign
// with ErrDuplicateIdentity; neither mutates anything and the caller closes
// the handle. An unseen sign creates the Client (codebook assigned by join
// order, initial contact from the matcher). A seen-but-offline sign reattaches
// the existing Client with its full prior state and disarms the grace timer.
//
// The welcome payload is queued on send before Claim returns, and every other
// online client left without a prompt gets a fresh matcher call (the unpaired
// sweep).
func (s *Session) Claim(sign string, send chan []byte) (*Client, error) {
	if !ValidSign.MatchString(sign) {
		return nil, relayerrors.ErrInvalidIdentity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, seen := s.clients[sign]
	if seen {
		if c.online() {
			return nil, relayerrors.ErrDuplicateIdentity
		}
		s.cancelGrace(c)
		c.send = send
		if c.currentPrompt != "" {
			c.state = Prompted
		} else {
			c.state = AwaitingPrompt
		}
	} else {
		book := s.source.Codebook(len(s.order))
		c = &Client{
			Sign:      sign,
			send:      send,
			codebook:  book,
			remaining: shuffled(book),
			state:     AwaitingPrompt,
		}
		s.clients[sign] = c
		s.order = append(s.order, c)
	}

	slog.Info("client claimed", "tag", "session", "sign", sign, "reconnect", seen, "online", s.onlineCount())

	if s.goal.Met() {
		// No prompts after victory: the joiner gets the document instead.
		s.push(c, victoryWelcomeMsg{Victory: s.victory, Backlog: s.chat.Backlog()})
	} else {
		if c.currentPrompt == "" {
			s.assign(c)
		}
		welcome := welcomeMsg{
			Codebook: c.codebook,
			Goal:     s.goal.Remaining(),
			Backlog:  s.chat.Backlog(),
			Prompt:   c.currentPrompt,
		}
		if c.activeChat != nil {
			welcome.MyChat = c.activeChat.Content
		}
		s.push(c, welcome)
		s.sweep(c)
	}

	if s.events != nil {
		go s.events.RecordConnect(sign, seen)
	}
	return c, nil
}

// assign asks the matcher for a contact and pops that contact's next pair. If
// no contact is available, or the chosen contact's codebook is exhausted, the
// client stays unpaired. Must be called with s.mu held.
func (s *Session) assign(c *Client) bool {
	contact := s.chooseFair(c)
	if contact == nil || len(contact.remaining) == 0 {
		c.contact = nil
		c.currentPrompt, c.currentResponse = "", ""
		c.state = AwaitingPrompt
		return false
	}
	last := len(contact.remaining) - 1
	pair := contact.remaining[last]
	contact.remaining = contact.remaining[:last]

	c.contact = contact
	c.currentPrompt = pair.Prompt
	c.currentResponse = pair.Response
	c.state = Prompted
	return true
}

// sweep gives every online, unpaired client except skip a fresh matcher call,
// pushing a prompt notification on success. Must be called with s.mu held.
func (s *Session) sweep(skip *Client) {
	if s.goal.Met() {
		return
	}
	for _, c := range s.order {
		if c == skip || !c.online() || c.currentPrompt != "" {
			continue
		}
		if s.assign(c) {
			s.push(c, promptMsg{Prompt: c.currentPrompt})
		}
	}
}

// push queues payload for one client. A nil handle (offline) is a no-op.
// Must be called with s.mu held.
func (s *Session) push(c *Client, payload any) {
	if c.send == nil {
		return
	}
	if data := encode(payload); data != nil {
		wsutil.SafeSend(c.send, data)
	}
}

// broadcast fans payload out to every online client except the excluded ones,
// over the registry as it stands right now. Per-recipient delivery failure is
// isolated: it never aborts the remaining sends nor reaches the caller.
// Must be called with s.mu held.
func (s *Session) broadcast(payload any, exclude ...*Client) {
	data := encode(payload)
	if data == nil {
		return
	}
next:
	for _, c := range s.order {
		if !c.online() {
			continue
		}
		for _, x := range exclude {
			if c == x {
				continue next
			}
		}
		wsutil.SafeSend(c.send, data)
	}
}

// Online reports whether sign currently has a live connection.
func (s *Session) Online(sign string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[sign]
	return ok && c.online()
}

// Goal returns the current countdown value.
func (s *Session) Goal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal.Remaining()
}

func (s *Session) onlineCount() int {
	n := 0
	for _, c := range s.order {
		if c.online() {
			n++
		}
	}
	return n
}

// shuffled returns a copy of book in random order; only codebook order is
// randomized, selection itself is deterministic.
func shuffled(book []Pair) []Pair {
	out := make([]Pair, len(book))
	copy(out, book)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
