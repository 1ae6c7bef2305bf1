package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguibr/actorkit/actor"
	"github.com/lguibr/actorkit/registry"
	"github.com/lguibr/actorkit/task"
)

// TestPipeline_ProducerProcessorConsumerDeliversExpectedValue is
// scenario S2 from spec.md §8: a routing slip ["Consumer","Processor"]
// popped from the back at each hop, producer value 10 -> Processor adds
// 1 -> Consumer adds 2 -> result queue observes 13.
func TestPipeline_ProducerProcessorConsumerDeliversExpectedValue(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	mgr := task.NewManager(reg, task.DefaultOptions())

	results := make(chan Message, 1)
	consumer := &Consumer{Delta: 2, Results: results}
	processor := &Processor{Registry: reg, Delta: 1}
	producer := &Producer{Registry: reg, Value: 10, Slip: []string{"Consumer", "Processor"}}

	require.NoError(t, mgr.CreateTask("pipeline", []*actor.Params{
		{Actor: consumer, Name: "Consumer"},
		{Actor: processor, Name: "Processor"},
		{Actor: producer, Name: "Producer"},
	}))
	defer mgr.Shutdown()

	select {
	case msg := <-results:
		assert.Equal(t, 13, msg.Value)
		assert.Empty(t, msg.Slip)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the pipeline result")
	}
}

// TestPipeline_LoggerIsSharedAcrossTasks is scenario S1, exercised
// through the example actors this package provides.
func TestPipeline_LoggerIsSharedAcrossTasks(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	mgr := task.NewManager(reg, task.DefaultOptions())

	require.NoError(t, mgr.CreateTask("A", []*actor.Params{
		{Actor: &Consumer{Delta: 0, Results: make(chan Message, 1)}, Name: "Producer-A"},
		{Actor: NewLogger(nil), Name: "Logger"},
	}))
	require.NoError(t, mgr.CreateTask("B", []*actor.Params{
		{Actor: &Consumer{Delta: 0, Results: make(chan Message, 1)}, Name: "Consumer-B"},
		{Actor: NewLogger(nil), Name: "Logger"},
	}))

	rc, ok := mgr.RefCount("Logger")
	require.True(t, ok)
	assert.Equal(t, 2, rc)

	require.NoError(t, mgr.StopTask("A"))
	status, ok := reg.StatusOf(reg.Lookup("Logger"))
	require.True(t, ok)
	assert.Equal(t, actor.StatusRunning, status)

	require.NoError(t, mgr.StopTask("B"))
	assert.Equal(t, actor.InvalidHandle, reg.Lookup("Logger"))
}
