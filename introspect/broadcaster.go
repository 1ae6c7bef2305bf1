package introspect

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lguibr/actorkit/actor"
)

// Broadcaster is an actor.Actor that ticks on Interval and pushes the
// server's current Snapshot to every subscribed WebSocket connection.
// It is built to run inside the same actor/registry/task runtime it
// introspects, started as an ordinary task actor by cmd/actorkitd.
//
// Like pipeline.Producer, Broadcaster has no stop hook to rely on, so
// its ticker goroutine watches its own handle's status through the
// registry and exits the first tick it sees itself Exited or Error, or
// its handle no longer resolves.
type Broadcaster struct {
	self actor.Handle
	name string

	Server   *Server
	Interval time.Duration
	Logger   *slog.Logger
}

func (b *Broadcaster) SetSelf(h actor.Handle, name string, _ int64) {
	b.self = h
	b.name = name
}

func (b *Broadcaster) Initialize() error {
	if b.Logger == nil {
		b.Logger = slog.Default()
	}
	if b.Interval <= 0 {
		b.Interval = time.Second
	}
	go b.run()
	return nil
}

func (b *Broadcaster) Process(int, any) error { return nil }

func (b *Broadcaster) run() {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for range ticker.C {
		status, ok := b.Server.Registry.StatusOf(b.self)
		if !ok || status.Terminal() {
			return
		}
		b.broadcast()
	}
}

func (b *Broadcaster) broadcast() {
	b.Server.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(b.Server.clients))
	for c := range b.Server.clients {
		clients = append(clients, c)
	}
	b.Server.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	snap := b.Server.snapshot()

	var dead []*websocket.Conn
	for _, ws := range clients {
		if err := websocket.JSON.Send(ws, snap); err != nil {
			if isClosedConnErr(err) {
				dead = append(dead, ws)
			} else {
				b.Logger.Error("introspect broadcast failed", "broadcaster", b.name, "addr", ws.RemoteAddr(), "error", err)
			}
		}
	}

	if len(dead) > 0 {
		b.Server.mu.Lock()
		for _, ws := range dead {
			delete(b.Server.clients, ws)
		}
		b.Server.mu.Unlock()
	}
}

// isClosedConnErr matches the teacher's set of error substrings that
// mean "the peer is gone" rather than "something is actually wrong".
func isClosedConnErr(err error) bool {
	s := err.Error()
	return strings.Contains(s, "use of closed network connection") ||
		strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "connection reset by peer") ||
		strings.Contains(s, "EOF")
}
