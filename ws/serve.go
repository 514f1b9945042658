package ws

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/catascopic/solstice/relay"
	"github.com/catascopic/solstice/relayerrors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Close reasons, kept stable for the client: sent with CloseProtocolError
// before any session state is touched.
const (
	closeReasonInvalid   = "invalid"
	closeReasonDuplicate = "duplicate"
)

// Gateway upgrades HTTP requests into relay connections. The connection path
// encodes the identity: /XYZ, exactly three uppercase letters.
type Gateway struct {
	Session *relay.Session
}

// NewGateway creates a Gateway over session.
func NewGateway(session *relay.Session) *Gateway {
	return &Gateway{Session: session}
}

// ServeHTTP handles a websocket upgrade, claims the path identity, and starts
// the connection's pumps. A malformed or duplicate-active identity closes the
// fresh connection with a distinct reason and mutates no session state.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Info("upgrade failed", "tag", "ws", "err", err)
		return
	}

	sign := strings.TrimPrefix(r.URL.Path, "/")
	send := make(chan []byte, 256)
	peer, err := g.Session.Claim(sign, send)
	if err != nil {
		reason := closeReasonInvalid
		if errors.Is(err, relayerrors.ErrDuplicateIdentity) {
			reason = closeReasonDuplicate
		}
		slog.Info("claim rejected", "tag", "ws", "path", r.URL.Path, "reason", reason)
		closeWith(conn, reason)
		return
	}

	client := &Client{
		conn:    conn,
		send:    send,
		session: g.Session,
		peer:    peer,
	}
	go client.WritePump()
	go client.ReadPump()
}

func closeWith(conn *websocket.Conn, reason string) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseProtocolError, reason)
	conn.WriteControl(websocket.CloseMessage, msg, deadline)
	conn.Close()
}
