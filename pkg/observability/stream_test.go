package observability_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamManager_Broadcast(t *testing.T) {
	sm := observability.NewStreamManager()
	a, cancelA := sm.Subscribe()
	b, cancelB := sm.Subscribe()
	defer cancelB()
	assert.Equal(t, 2, sm.Subscribers())

	sm.Hooks().OnStep(context.Background(), domain.StepEvent{
		Mode:    domain.ModeSorting,
		Kind:    domain.StepSwap,
		Seq:     4,
		Indices: []int{1, 2},
	})

	for _, ch := range []<-chan observability.Message{a, b} {
		msg := <-ch
		assert.Equal(t, observability.EventStep, msg.Type)

		var decoded struct {
			Type string           `json:"type"`
			Data domain.StepEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Data, &decoded))
		assert.Equal(t, "step", decoded.Type)
		assert.Equal(t, 4, decoded.Data.Seq)
		assert.Equal(t, []int{1, 2}, decoded.Data.Indices)
	}

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open, "unsubscribe closes the channel")
	assert.Equal(t, 1, sm.Subscribers())
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := observability.NewStreamManager(observability.WithBufferSize(2))
	ch, cancel := sm.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		sm.Broadcast(observability.EventState, &domain.StateEvent{To: domain.StateRunning})
	}
	assert.Len(t, ch, 2)
}

func TestStreamManager_NoSubscribers(t *testing.T) {
	sm := observability.NewStreamManager()
	assert.NotPanics(t, func() {
		sm.Broadcast(observability.EventRunStart, &domain.RunEvent{})
	})
}
