package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursework/rtkernel/internal/schedevents"
)

func TestStreamHubRegisterBroadcastUnregister(t *testing.T) {
	h := NewStreamHub()
	id, ch := h.register()

	ev, err := schedevents.NewEvent(schedevents.TypeTableTick, 2, schedevents.TableTickData{Name: "p", Policy: "edf", Tick: 1})
	require.NoError(t, err)

	h.Broadcast(ev)

	got := <-ch
	assert.Equal(t, ev.ID, got.ID)

	h.unregister(id)
	_, open := <-ch
	assert.False(t, open, "channel should be closed after unregister")
}

func TestStreamHubBroadcastNeverBlocksOnFullClient(t *testing.T) {
	h := NewStreamHub()
	_, ch := h.register()

	// Fill the client's buffer without draining it.
	for i := 0; i < 64; i++ {
		ev, _ := schedevents.NewEvent(schedevents.TypeTableTick, i, schedevents.TableTickData{})
		h.Broadcast(ev)
	}
	assert.LessOrEqual(t, len(ch), cap(ch))
}
