package schedevents

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventMarshalsPayload(t *testing.T) {
	ev, err := NewEvent(TypeProcessAdmitted, 7, ProcessAdmissionData{
		Policy: "edf", UtilEDF: 62, UtilRM: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, TypeProcessAdmitted, ev.Type)
	assert.Equal(t, 7, ev.PID)
	assert.NotEqual(t, ev.ID.String(), "")

	var data ProcessAdmissionData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "edf", data.Policy)
	assert.Equal(t, 62, data.UtilEDF)
}

func TestNoopBusNeverErrors(t *testing.T) {
	var bus NoopBus
	ev, err := NewEvent(TypeTableTick, 3, TableTickData{Name: "p", Policy: "rm", Tick: 5})
	require.NoError(t, err)
	assert.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()
}
