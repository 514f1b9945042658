package relay

import (
	"log/slog"
	"time"
)

// The reconnection supervisor: every disconnect arms a cancellable delayed
// action; reattachment inside the window cancels it, expiry releases the
// client's dependents. Firing and cancellation are mutually exclusive — the
// timer goroutine re-checks its generation under the session lock, so a fire
// that loses the race to a reconnect is a no-op rather than a double
// reassignment.

// armGrace starts the grace timer for c. Must be called with s.mu held.
func (s *Session) armGrace(c *Client) {
	c.graceGen++
	gen := c.graceGen
	cancel := make(chan struct{})
	c.graceCancel = cancel
	go func() {
		select {
		case <-time.After(s.grace):
			s.lapse(c, gen)
		case <-cancel:
		}
	}()
}

// cancelGrace disarms c's grace timer. Bumping the generation first makes an
// already-fired timer stale even if it is blocked on the lock right now.
// Must be called with s.mu held.
func (s *Session) cancelGrace(c *Client) {
	c.graceGen++
	if c.graceCancel != nil {
		close(c.graceCancel)
		c.graceCancel = nil
	}
}

// lapse runs when c's grace window expires without reattachment. Every online
// client whose contact is c gets exactly one fresh matcher call, so nobody
// stalls on an abandoned partner. The lapsed client keeps its own pending
// prompt and is not reassigned (nor eligible as a contact) until it
// reconnects.
func (s *Session) lapse(c *Client, gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.graceGen != gen || c.online() {
		return
	}
	c.state = Lapsed
	c.graceCancel = nil
	slog.Info("grace expired", "tag", "session", "sign", c.Sign)

	if s.goal.Met() {
		return
	}
	for _, d := range s.order {
		if d == c || !d.online() || d.contact != c {
			continue
		}
		d.contact = nil
		d.currentPrompt, d.currentResponse = "", ""
		if s.assign(d) {
			s.push(d, promptMsg{Prompt: d.currentPrompt})
		}
	}
}
