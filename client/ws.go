package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bcspragu/codenamesbot/web"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type wsClient struct {
	conn   *websocket.Conn
	msgs   chan []byte
	done   chan struct{}
	hooks  WSHooks
	logger zerolog.Logger
}

// ListenForUpdates connects to the channel's WebSocket and calls hooks for
// each message, one at a time, until the connection drops or ctx is done.
func (c *Client) ListenForUpdates(ctx context.Context, channel string, hooks WSHooks) error {
	scheme := "ws"
	if c.scheme == "https" {
		scheme = "wss"
	}

	addr := scheme + "://" + c.addr + channelPath(channel, "ws")

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 45 * time.Second,
		Jar:              c.http.Jar,
	}
	conn, _, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer conn.Close()

	if hooks.OnConnect != nil {
		go hooks.OnConnect()
	}

	wsc := &wsClient{
		conn: conn,
		done: make(chan struct{}),
		// We buffer it in case messages come in while we're waiting on user input.
		// We don't want to process messages concurrently, because that seems
		// likely to cause tricky problems.
		msgs:   make(chan []byte, 100),
		hooks:  hooks,
		logger: c.logger,
	}

	go wsc.handleMessages()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-wsc.done:
		}
	}()

	err = wsc.read()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (ws *wsClient) read() error {
	defer close(ws.done)
	for {
		messageType, message, err := ws.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("ReadMessage: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		ws.msgs <- message
	}
}

func (ws *wsClient) handleMessages() {
	for {
		select {
		case <-ws.done:
			return
		case msg := <-ws.msgs:
			ws.handle(msg)
		}
	}
}

func (ws *wsClient) handle(msg []byte) {
	var justAction struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(msg, &justAction); err != nil {
		ws.logger.Error().Err(err).Msg("failed to unmarshal action from server")
		return
	}

	switch justAction.Action {
	case web.ActionPlayerJoined:
		dispatch(ws, msg, ws.hooks.OnPlayerJoined)
	case web.ActionGameStart:
		dispatch(ws, msg, ws.hooks.OnStart)
	case web.ActionHinterPicked:
		dispatch(ws, msg, ws.hooks.OnHinterPicked)
	case web.ActionHinterBoard:
		dispatch(ws, msg, ws.hooks.OnHinterBoard)
	case web.ActionClueGiven:
		dispatch(ws, msg, ws.hooks.OnClueGiven)
	case web.ActionGuessGiven:
		dispatch(ws, msg, ws.hooks.OnGuessGiven)
	case web.ActionPass:
		dispatch(ws, msg, ws.hooks.OnPass)
	case web.ActionGameEnd:
		dispatch(ws, msg, ws.hooks.OnEnd)
	case web.ActionGameReset:
		dispatch(ws, msg, ws.hooks.OnReset)
	default:
		ws.logger.Warn().Str("action", justAction.Action).Msg("unknown message action")
	}
}

// dispatch decodes the message and calls the hook, if there is one.
func dispatch[T any](ws *wsClient, dat []byte, hook func(*T)) {
	if hook == nil {
		return
	}
	var v T
	if err := json.Unmarshal(dat, &v); err != nil {
		ws.logger.Error().Err(err).Msgf("failed to decode %T", v)
		return
	}
	hook(&v)
}

type WSHooks struct {
	OnConnect      func()
	OnPlayerJoined func(*web.PlayerJoined)
	OnStart        func(*web.GameStart)
	OnHinterPicked func(*web.HinterPicked)
	OnHinterBoard  func(*web.HinterBoard)
	OnClueGiven    func(*web.ClueGiven)
	OnGuessGiven   func(*web.GuessGiven)
	OnPass         func(*web.Pass)
	OnEnd          func(*web.GameEnd)
	OnReset        func(*web.GameReset)
}
