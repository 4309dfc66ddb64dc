// Package hub fans game updates out to everyone watching a channel over a
// WebSocket.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub maintains the set of active connections and broadcasts messages to the
// connections.
type Hub struct {
	// Registered connections, by channel.
	connections map[string][]*connection

	// Messages to send to everyone in a channel.
	broadcast chan *broadcastMsg

	// Messages to send to a single player in a channel.
	user chan *userMsg

	// Register requests from the connections.
	register chan *connection

	// Unregister requests from connections.
	unregister chan *connection

	// Requests for how many connections a channel has.
	count chan *countReq

	logger zerolog.Logger
}

// New creates a new Hub and starts it in a background Go routine.
func New(logger zerolog.Logger) *Hub {
	h := &Hub{
		broadcast:   make(chan *broadcastMsg),
		user:        make(chan *userMsg),
		register:    make(chan *connection),
		unregister:  make(chan *connection),
		count:       make(chan *countReq),
		connections: make(map[string][]*connection),
		logger:      logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			conns := h.connections[c.channel]
			h.connections[c.channel] = append(conns, c)
		case c := <-h.unregister:
			h.deleteConn(c)
		case m := <-h.broadcast:
			for _, c := range h.snapshot(m.channel) {
				h.send(c, m.msg)
			}
		case m := <-h.user:
			for _, c := range h.snapshot(m.channel) {
				if c.playerID == m.playerID {
					h.send(c, m.msg)
				}
			}
		case req := <-h.count:
			req.resp <- len(h.connections[req.channel])
		}
	}
}

// snapshot copies the channel's connections, since sending can remove them.
func (h *Hub) snapshot(channel string) []*connection {
	conns := h.connections[channel]
	out := make([]*connection, len(conns))
	copy(out, conns)
	return out
}

// send drops connections that can't keep up.
func (h *Hub) send(c *connection, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn().Str("channel", c.channel).Str("conn", c.id).Msg("dropping slow connection")
		h.deleteConn(c)
	}
}

func (h *Hub) deleteConn(c *connection) {
	rconns := h.connections[c.channel]
	for i, rconn := range rconns {
		if rconn.id == c.id {
			close(c.send)
			// Remove the connection.
			copy(rconns[i:], rconns[i+1:])
			rconns[len(rconns)-1] = nil
			h.connections[c.channel] = rconns[:len(rconns)-1]
			if len(h.connections[c.channel]) == 0 {
				delete(h.connections, c.channel)
			}
			return
		}
	}
}

type broadcastMsg struct {
	channel string
	msg     []byte
}

// ToChannel sends a message to everyone watching a channel.
func (h *Hub) ToChannel(ctx context.Context, channel string, msg interface{}) error {
	dat, err := encode(msg)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- &broadcastMsg{channel: channel, msg: dat}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type userMsg struct {
	channel  string
	playerID codenames.PlayerID
	msg      []byte
}

// ToPlayer sends a message to a single player's connections in a channel,
// for things like the hinter's view of the board.
func (h *Hub) ToPlayer(ctx context.Context, channel string, pID codenames.PlayerID, msg interface{}) error {
	dat, err := encode(msg)
	if err != nil {
		return err
	}

	select {
	case h.user <- &userMsg{channel: channel, playerID: pID, msg: dat}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type countReq struct {
	channel string
	resp    chan int
}

// Connections returns how many connections are watching a channel.
func (h *Hub) Connections(ctx context.Context, channel string) (int, error) {
	req := &countReq{channel: channel, resp: make(chan int, 1)}
	select {
	case h.count <- req:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-req.resp, nil
}

func encode(msg interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// Register associates a connection with the hub and a given channel. The hub
// owns the connection from here on out, and closes it when the other side goes
// away.
func (h *Hub) Register(ws *websocket.Conn, channel string, pID codenames.PlayerID) {
	conn := &connection{
		id:       newID(channel),
		h:        h,
		channel:  channel,
		playerID: pID,
		send:     make(chan []byte, 256),
		ws:       ws,
	}
	h.register <- conn
	go conn.writePump()
	go conn.readPump()
}

func newID(channel string) string {
	return fmt.Sprintf("%s-%d", channel, rand.Int63())
}
