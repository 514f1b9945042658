package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/catascopic/solstice/relay"
	"github.com/catascopic/solstice/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client drives one websocket connection: the read pump routes inbound
// messages into the session, the write pump drains the send channel the
// session delivers on. Session state outlives the Client; a reconnect builds
// a new Client around the same relay.Client.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	session *relay.Session
	peer    *relay.Client
}

// ReadPump pumps messages from the websocket connection into the session.
// It runs in its own goroutine per connection; on exit the connection is
// handed to the session's disconnect flow.
func (c *Client) ReadPump() {
	defer func() {
		c.session.Disconnect(c.peer, c.send)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// A transport drop is not an error condition; it feeds the
			// grace flow. Only unexpected closures are worth a log line.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Info("read error", "tag", "ws", "sign", c.peer.Sign, "err", err)
			}
			return
		}

		msg, err := ParseInbound(data)
		if err != nil {
			c.reject("malformed message")
			continue
		}
		switch {
		case msg.Response != nil:
			c.session.HandleResponse(c.peer, *msg.Response)
		case msg.Chat != nil:
			c.session.HandleChat(c.peer, *msg.Chat, msg.Newline)
		}
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The read pump closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) reject(reason string) {
	data, _ := json.Marshal(errorMsg{Error: reason})
	wsutil.SafeSend(c.send, data)
}
