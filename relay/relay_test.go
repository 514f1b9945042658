package relay

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/catascopic/solstice/config"
)

// stubSource deals each join order a distinct book of bookSize pairs, with
// prompts and responses that encode their origin ("p0-3" is pair 3 of the
// book dealt to join order 0).
type stubSource struct {
	bookSize int
}

func (s stubSource) Codebook(joinOrder int) []Pair {
	book := make([]Pair, s.bookSize)
	for i := range book {
		book[i] = Pair{
			Prompt:   fmt.Sprintf("p%d-%d", joinOrder, i),
			Response: fmt.Sprintf("r%d-%d", joinOrder, i),
		}
	}
	return book
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.GoalTarget = 50
	cfg.GracePeriodMS = 100 // short for testing
	return cfg
}

func newTestSession(cfg *config.Config) *Session {
	return NewSession(cfg, stubSource{bookSize: 8}, json.RawMessage(`{"call":"room-1"}`), nil)
}

// connect claims sign and returns the client with its send channel.
func connect(t *testing.T, s *Session, sign string) (*Client, chan []byte) {
	t.Helper()
	send := make(chan []byte, 100)
	c, err := s.Claim(sign, send)
	if err != nil {
		t.Fatalf("claiming %s: %v", sign, err)
	}
	return c, send
}

// probe decodes any outbound payload far enough for assertions.
type probe struct {
	Codebook [][2]string     `json:"codebook"`
	Goal     *int            `json:"goal"`
	Backlog  []BacklogItem   `json:"backlog"`
	Prompt   *string         `json:"prompt"`
	MyChat   string          `json:"myChat"`
	Feedback *bool           `json:"feedback"`
	Teamwork string          `json:"teamwork"`
	Victory  json.RawMessage `json:"victory"`
	Chat     *chatBody       `json:"chat"`
}

func decode(t *testing.T, data []byte) probe {
	t.Helper()
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshaling %s: %v", data, err)
	}
	return p
}

// drainChannel reads all currently available messages from a channel.
func drainChannel(ch chan []byte) [][]byte {
	var msgs [][]byte
	for {
		select {
		case msg := <-ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// nextMsg waits briefly for one message.
func nextMsg(t *testing.T, ch chan []byte) probe {
	t.Helper()
	select {
	case msg := <-ch:
		return decode(t, msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return probe{}
	}
}

// pendingResponse reads the response a client must send to solve its current
// prompt.
func pendingResponse(s *Session, c *Client) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.currentResponse
}

func clientState(s *Session, c *Client) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.state
}

func contactOf(s *Session, c *Client) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.contact
}

func remainingOf(s *Session, c *Client) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(c.remaining)
}
