package relay

import (
	"testing"
)

// TestChatOverwrite is Scenario B: typing updates overwrite the active item,
// so the backlog ends up with one item holding the final text.
func TestChatOverwrite(t *testing.T) {
	s := newTestSession(testConfig())
	a, sendA := connect(t, s, "AAA")
	nextMsg(t, sendA)
	_, sendB := connect(t, s, "BBB")
	drainChannel(sendA)
	drainChannel(sendB)

	s.HandleChat(a, "HEL", false)
	s.HandleChat(a, "HELLO", false)

	backlog := func() []BacklogItem {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.chat.Backlog()
	}()
	if len(backlog) != 1 {
		t.Fatalf("backlog holds %d items, want 1", len(backlog))
	}
	if backlog[0].Author != "AAA" || backlog[0].Text != "HELLO" {
		t.Errorf("backlog item = %+v, want AAA/HELLO", backlog[0])
	}

	// The other client saw both updates, the sender neither.
	first := nextMsg(t, sendB)
	if first.Chat == nil || first.Chat.Content != "HEL" {
		t.Errorf("first broadcast = %+v, want chat HEL", first.Chat)
	}
	second := nextMsg(t, sendB)
	if second.Chat == nil || second.Chat.Content != "HELLO" || second.Chat.Name != "AAA" {
		t.Errorf("second broadcast = %+v, want chat HELLO from AAA", second.Chat)
	}
	if len(drainChannel(sendA)) != 0 {
		t.Error("chat must not echo back to its author")
	}
}

func TestChatNewlineStartsFreshItem(t *testing.T) {
	s := newTestSession(testConfig())
	a, sendA := connect(t, s, "AAA")
	nextMsg(t, sendA)

	s.HandleChat(a, "FIRST", false)
	s.HandleChat(a, "SECOND", true)
	s.HandleChat(a, "SECOND LINE", false)

	s.mu.Lock()
	backlog := s.chat.Backlog()
	s.mu.Unlock()
	if len(backlog) != 2 {
		t.Fatalf("backlog holds %d items, want 2", len(backlog))
	}
	if backlog[0].Text != "FIRST" || backlog[1].Text != "SECOND LINE" {
		t.Errorf("backlog = %+v", backlog)
	}
}

func TestBacklogSkipsEmptyItems(t *testing.T) {
	s := newTestSession(testConfig())
	a, sendA := connect(t, s, "AAA")
	nextMsg(t, sendA)

	s.HandleChat(a, "KEPT", false)
	s.HandleChat(a, "", true) // newline signal opens an item not yet typed into

	s.mu.Lock()
	total := s.chat.Len()
	backlog := s.chat.Backlog()
	s.mu.Unlock()
	if total != 2 {
		t.Fatalf("transcript holds %d items, want 2", total)
	}
	if len(backlog) != 1 || backlog[0].Text != "KEPT" {
		t.Errorf("backlog = %+v, want only the non-empty item", backlog)
	}
}

func TestWelcomeCarriesBacklogAndActiveChat(t *testing.T) {
	s := newTestSession(testConfig())
	a, sendA := connect(t, s, "AAA")
	nextMsg(t, sendA)
	s.HandleChat(a, "STILL TYPIN", false)

	// A latecomer is hydrated with the full snapshot.
	_, sendC := connect(t, s, "CCC")
	welcomeC := nextMsg(t, sendC)
	if len(welcomeC.Backlog) != 1 || welcomeC.Backlog[0].Text != "STILL TYPIN" {
		t.Errorf("latecomer backlog = %+v", welcomeC.Backlog)
	}

	// A reconnecting author also gets its own unfinished line back.
	s.Disconnect(a, sendA)
	sendA2 := make(chan []byte, 100)
	if _, err := s.Claim("AAA", sendA2); err != nil {
		t.Fatalf("reclaiming: %v", err)
	}
	welcomeA := nextMsg(t, sendA2)
	if welcomeA.MyChat != "STILL TYPIN" {
		t.Errorf("myChat = %q, want the active item's content", welcomeA.MyChat)
	}
}
