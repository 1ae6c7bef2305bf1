package pipeline

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lguibr/actorkit/actor"
	"github.com/lguibr/actorkit/registry"
)

// Producer is the head of an example pipeline: every Interval it builds a
// fresh Message, pops its own first hop off Slip, and forwards the rest
// through the registry — mirroring the teacher's PaddleActor pattern of
// a self-driven goroutine, here started from Initialize. A send that
// fails (for example on a full mailbox) is logged and not retried.
//
// Because the core Actor capability has no stop hook, the goroutine
// watches its own handle's status through the registry before each send
// and exits once it observes itself Exited or Error, or its handle no
// longer resolves. That is the adaptation registry.StatusOf exists to
// support.
type Producer struct {
	self actor.Handle
	name string

	Registry *registry.Registry
	Value    int
	Slip     []string
	Interval time.Duration // 0 sends exactly once
	Count    int           // 0 means unlimited when Interval > 0
	Logger   *slog.Logger
}

func (p *Producer) SetSelf(h actor.Handle, name string, _ int64) {
	p.self = h
	p.name = name
}

func (p *Producer) Initialize() error {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	go p.run()
	return nil
}

func (p *Producer) Process(int, any) error { return nil }

func (p *Producer) run() {
	sent := 0
	for {
		if status, ok := p.Registry.StatusOf(p.self); !ok || status.Terminal() {
			return
		}

		hop, rest, ok := Message{Slip: p.Slip}.popHop()
		if !ok {
			p.Logger.Error("producer has no hop to send to: empty slip", "producer", p.name)
			return
		}

		target := p.Registry.Lookup(hop)
		if target == actor.InvalidHandle {
			p.Logger.Error("producer's first hop not found", "producer", p.name, "hop", hop)
			return
		}
		msg := Message{Value: p.Value, Slip: rest, CorrelationID: uuid.NewString()}
		if err := p.Registry.Enqueue(target, KindWork, msg); err != nil {
			p.Logger.Warn("producer send failed", "producer", p.name, "error", err)
		}

		sent++
		if p.Interval <= 0 || (p.Count > 0 && sent >= p.Count) {
			return
		}
		time.Sleep(p.Interval)
	}
}
