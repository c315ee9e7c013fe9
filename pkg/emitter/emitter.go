package emitter

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AzielCF/az-meta/domains/message"
	"github.com/AzielCF/az-meta/infrastructure/valkey"
	"github.com/sirupsen/logrus"
)

// EventPayload is what adapters hand to downstream consumers: the owning
// instance plus the canonical events produced by one webhook delivery.
type EventPayload struct {
	InstanceName string                 `json:"instanceName"`
	Data         []message.InboundEvent `json:"data"`
}

// Handler consumes one emitted event batch. Handlers run synchronously and
// in subscription order; a panicking handler is isolated so it cannot fail
// the webhook HTTP response.
type Handler func(event string, payload EventPayload)

// Emitter is the process-wide publish point between the normalization
// pipelines and downstream consumers. Fire-and-forget: no acknowledgment.
type Emitter struct {
	mu   sync.RWMutex
	subs []Handler

	vkClient  *valkey.Client
	vkChannel string
	serverID  string
}

func New() *Emitter {
	return &Emitter{}
}

// SetValkeyClient enables cross-replica fan-out: every emitted batch is also
// published on a valkey pub/sub channel tagged with this server's ID.
func (e *Emitter) SetValkeyClient(client *valkey.Client, serverID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vkClient = client
	e.vkChannel = "events"
	e.serverID = serverID
}

func (e *Emitter) Subscribe(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, h)
}

// Emit delivers the payload to every subscriber in order, then publishes to
// valkey when configured.
func (e *Emitter) Emit(event string, payload EventPayload) {
	e.mu.RLock()
	subs := make([]Handler, len(e.subs))
	copy(subs, e.subs)
	vk := e.vkClient
	e.mu.RUnlock()

	for _, h := range subs {
		e.safeDeliver(h, event, payload)
	}

	if vk != nil {
		e.publishToValkey(event, payload)
	}
}

func (e *Emitter) safeDeliver(h Handler, event string, payload EventPayload) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[EMITTER] Subscriber panicked on %s: %v", event, r)
		}
	}()
	h(event, payload)
}

type valkeyEnvelope struct {
	Event    string       `json:"event"`
	SenderID string       `json:"sender_id"`
	Payload  EventPayload `json:"payload"`
}

func (e *Emitter) publishToValkey(event string, payload EventPayload) {
	data, err := json.Marshal(valkeyEnvelope{Event: event, SenderID: e.serverID, Payload: payload})
	if err != nil {
		logrus.Errorf("[EMITTER] Marshal error: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.vkClient.Publish(ctx, e.vkChannel, data); err != nil {
		logrus.Warnf("[EMITTER] Valkey publish failed: %v", err)
	}
}
