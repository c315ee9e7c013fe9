package emitter

import (
	"testing"

	"github.com/AzielCF/az-meta/domains/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_DeliversInSubscriptionOrder(t *testing.T) {
	e := New()

	var order []string
	e.Subscribe(func(event string, payload EventPayload) {
		order = append(order, "primero")
	})
	e.Subscribe(func(event string, payload EventPayload) {
		order = append(order, "segundo")
	})

	e.Emit(message.EventMessagesUpsert, EventPayload{InstanceName: "inst"})

	assert.Equal(t, []string{"primero", "segundo"}, order)
}

func TestEmitter_PanickingSubscriberIsIsolated(t *testing.T) {
	e := New()

	var delivered bool
	e.Subscribe(func(event string, payload EventPayload) {
		panic("subscriber roto")
	})
	e.Subscribe(func(event string, payload EventPayload) {
		delivered = true
	})

	require.NotPanics(t, func() {
		e.Emit(message.EventMessagesUpsert, EventPayload{InstanceName: "inst"})
	})
	assert.True(t, delivered)
}

func TestEmitter_PayloadCarriesBatch(t *testing.T) {
	e := New()

	var got EventPayload
	e.Subscribe(func(event string, payload EventPayload) {
		got = payload
	})

	batch := []message.InboundEvent{
		{Source: "facebook", InstanceName: "inst", SenderID: "a", MessageID: "m1"},
		{Source: "facebook", InstanceName: "inst", SenderID: "a", MessageID: "m2"},
	}
	e.Emit(message.EventMessagesUpsert, EventPayload{InstanceName: "inst", Data: batch})

	require.Len(t, got.Data, 2)
	assert.Equal(t, "m1", got.Data[0].MessageID)
	assert.Equal(t, "m2", got.Data[1].MessageID)
}

func TestEmitter_NoSubscribersIsNoop(t *testing.T) {
	e := New()
	require.NotPanics(t, func() {
		e.Emit(message.EventMessagesUpsert, EventPayload{InstanceName: "inst"})
	})
}
