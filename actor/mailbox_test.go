package actor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, ClampCapacity(0))
	assert.Equal(t, DefaultCapacity, ClampCapacity(-5))
	assert.Equal(t, DefaultCapacity, ClampCapacity(MaxCapacity+1))
	assert.Equal(t, 42, ClampCapacity(42))
	assert.Equal(t, MinCapacity, ClampCapacity(MinCapacity))
	assert.Equal(t, MaxCapacity, ClampCapacity(MaxCapacity))
}

func TestMailbox_TryPushRespectsCapacity(t *testing.T) {
	mb := NewMailbox(1)

	assert.True(t, mb.TryPush(Envelope{Kind: 1, Payload: "a"}))
	assert.False(t, mb.TryPush(Envelope{Kind: 2, Payload: "b"}), "second push should fail: mailbox full")
	assert.Equal(t, 1, mb.Size())

	e, ok := mb.TryPop()
	assert.True(t, ok)
	assert.Equal(t, 1, e.Kind)
	assert.True(t, mb.Empty())
}

func TestMailbox_PoisonBypassesCapacity(t *testing.T) {
	mb := NewMailbox(1)
	assert.True(t, mb.TryPush(Envelope{Kind: 1}))
	assert.True(t, mb.TryPush(Poison()), "poison pill must be accepted even when full")
	assert.Equal(t, 2, mb.Size())
}

func TestMailbox_BlockingPopWaitsForPush(t *testing.T) {
	mb := NewMailbox(4)
	var wg sync.WaitGroup
	wg.Add(1)

	var received Envelope
	go func() {
		defer wg.Done()
		received = mb.BlockingPop()
	}()

	time.Sleep(20 * time.Millisecond)
	mb.TryPush(Envelope{Kind: 7, Payload: 99})
	wg.Wait()

	assert.Equal(t, 7, received.Kind)
	assert.Equal(t, 99, received.Payload)
}

func TestMailbox_FIFOOrder(t *testing.T) {
	mb := NewMailbox(10)
	for i := 0; i < 5; i++ {
		assert.True(t, mb.TryPush(Envelope{Kind: i}))
	}
	for i := 0; i < 5; i++ {
		e, ok := mb.TryPop()
		assert.True(t, ok)
		assert.Equal(t, i, e.Kind)
	}
	_, ok := mb.TryPop()
	assert.False(t, ok)
}
