package pipeline

import (
	"log/slog"

	"github.com/lguibr/actorkit/actor"
	"github.com/lguibr/actorkit/registry"
)

// Processor adds Delta to a Message's value and forwards it to the next
// name popped off the message's routing slip. A message whose slip is
// already empty is dropped with a warning: in this package's intended
// use a Processor is never the last hop.
type Processor struct {
	self actor.Handle
	name string

	Registry *registry.Registry
	Delta    int
	Logger   *slog.Logger
}

func (p *Processor) SetSelf(h actor.Handle, name string, _ int64) {
	p.self = h
	p.name = name
}

func (p *Processor) Initialize() error {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return nil
}

func (p *Processor) Process(kind int, payload any) error {
	if kind != KindWork {
		return nil
	}
	msg, ok := payload.(Message)
	if !ok {
		return nil
	}

	hop, rest, ok := msg.popHop()
	if !ok {
		p.Logger.Warn("processor has nowhere to forward: empty slip", "processor", p.name)
		return nil
	}

	next := p.Registry.Lookup(hop)
	if next == actor.InvalidHandle {
		p.Logger.Error("processor's next hop not found", "processor", p.name, "hop", hop)
		return nil
	}

	return p.Registry.Enqueue(next, KindWork, Message{
		Value:         msg.Value + p.Delta,
		Slip:          rest,
		CorrelationID: msg.CorrelationID,
	})
}
