package relay

import "log/slog"

// HandleResponse processes one {response} message from c.
//
// An exact match against the pending response consumes the prompt, decrements
// the goal, and notifies three audiences: the solver gets its next prompt with
// positive feedback and the new goal, the solved contact learns who cracked
// its challenge, and everyone else sees the countdown move. On the goal edge
// the victory document is broadcast instead, exactly once; no prompts are
// issued after that. A mismatch answers the solver alone and mutates nothing.
func (s *Session) HandleResponse(c *Client, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.goal.Met() {
		// Stray response raced the victory broadcast; nothing left to solve.
		return
	}
	if c.currentResponse == "" || response != c.currentResponse {
		s.push(c, feedbackMsg{Feedback: false})
		return
	}

	solved := c.contact
	solvedSign := ""
	if solved != nil {
		solvedSign = solved.Sign
	}
	prompt := c.currentPrompt
	c.contact = nil
	c.currentPrompt, c.currentResponse = "", ""

	won := s.goal.Decrement()
	goalAfter := s.goal.Remaining()
	if s.events != nil {
		go s.events.RecordSolve(c.Sign, solvedSign, prompt, goalAfter)
	}

	if won {
		slog.Info("goal met", "tag", "session", "solver", c.Sign)
		s.broadcast(victoryMsg{Victory: s.victory})
		if s.events != nil {
			go s.events.RecordVictory(s.target)
		}
		return
	}

	s.assign(c)
	s.push(c, solvedMsg{Prompt: c.currentPrompt, Feedback: true, Goal: goalAfter})
	if solved != nil {
		s.push(solved, teamworkMsg{Teamwork: c.Sign})
	}
	s.broadcast(goalMsg{Goal: goalAfter}, c)
}

// HandleChat processes one {chat} message from c. A newline marker, or the
// absence of an active item, appends a fresh ChatItem to the transcript;
// otherwise the active item's content is overwritten whole. Either way the
// update is fanned out to every other online client.
func (s *Session) HandleChat(c *Client, content string, newline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newline || c.activeChat == nil {
		c.activeChat = s.chat.Append(c.Sign, content)
	} else {
		c.activeChat.Content = content
	}
	s.broadcast(chatMsg{Chat: chatBody{Name: c.Sign, Content: content, Newline: newline}}, c)
}

// Disconnect routes a transport drop for c into the grace flow. send must be
// the handle the dropped connection was claimed with: a pump that lingers past
// its own replacement finds the handle already swapped and does nothing.
func (s *Session) Disconnect(c *Client, send chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.send != send {
		return
	}
	c.send = nil
	c.state = DisconnectedGrace
	s.armGrace(c)
	slog.Info("client disconnected", "tag", "session", "sign", c.Sign, "online", s.onlineCount())
}
