package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	h := New(zerolog.Nop())

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade: %v", err)
			return
		}
		q := r.URL.Query()
		h.Register(ws, q.Get("channel"), codenames.PlayerID(q.Get("player")))
	}))
	defer srv.Close()

	dial := func(channel, player string) *websocket.Conn {
		u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?channel=" + channel + "&player=" + player
		ws, _, err := websocket.DefaultDialer.Dial(u, nil)
		if err != nil {
			t.Fatalf("failed to dial: %v", err)
		}
		t.Cleanup(func() { ws.Close() })
		return ws
	}

	alice := dial("general", "alice")
	bob := dial("general", "bob")
	carol := dial("other", "carol")
	waitForConns(t, h, "general", 2)
	waitForConns(t, h, "other", 1)

	type msg struct {
		Text string `json:"text"`
	}

	if err := h.ToChannel(ctx, "general", &msg{Text: "hello"}); err != nil {
		t.Fatalf("ToChannel: %v", err)
	}
	if err := h.ToPlayer(ctx, "general", "bob", &msg{Text: "psst"}); err != nil {
		t.Fatalf("ToPlayer: %v", err)
	}
	if err := h.ToChannel(ctx, "other", &msg{Text: "elsewhere"}); err != nil {
		t.Fatalf("ToChannel: %v", err)
	}

	read := func(ws *websocket.Conn) string {
		ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		var m msg
		if err := ws.ReadJSON(&m); err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		return m.Text
	}

	if diff := cmp.Diff([]string{"hello"}, []string{read(alice)}); diff != "" {
		t.Errorf("alice got (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hello", "psst"}, []string{read(bob), read(bob)}); diff != "" {
		t.Errorf("bob got (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"elsewhere"}, []string{read(carol)}); diff != "" {
		t.Errorf("carol got (-want +got)\n%s", diff)
	}

	carol.Close()
	waitForConns(t, h, "other", 0)
}

func waitForConns(t *testing.T, h *Hub, channel string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := h.Connections(context.Background(), channel)
		if err != nil {
			t.Fatalf("Connections: %v", err)
		}
		if n == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("channel %q has %d connections, want %d", channel, n, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
