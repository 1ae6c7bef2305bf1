package pipeline

import (
	"log/slog"

	"github.com/lguibr/actorkit/actor"
)

// Consumer is the tail of an example pipeline: it adds Delta to the
// message's value and pushes the result onto Results, the "user result
// queue" spec.md places outside the core's scope. Results must be
// buffered deeply enough for expected traffic; Consumer never blocks
// retrying a full queue, consistent with the core's stance that
// back-pressure policy belongs to the caller, not the runtime.
type Consumer struct {
	self actor.Handle
	name string

	Delta   int
	Results chan Message
	Logger  *slog.Logger
}

func (c *Consumer) SetSelf(h actor.Handle, name string, _ int64) {
	c.self = h
	c.name = name
}

func (c *Consumer) Initialize() error {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

func (c *Consumer) Process(kind int, payload any) error {
	if kind != KindWork {
		return nil
	}
	msg, ok := payload.(Message)
	if !ok {
		return nil
	}

	final := Message{
		Value:         msg.Value + c.Delta,
		Slip:          msg.Slip,
		CorrelationID: msg.CorrelationID,
	}
	select {
	case c.Results <- final:
	default:
		c.Logger.Warn("consumer result queue full, dropping", "consumer", c.name)
	}
	return nil
}
