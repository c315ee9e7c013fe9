package meta

import (
	"context"
	"fmt"
	"sync"

	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/domains/message"
	"github.com/AzielCF/az-meta/pkg/emitter"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/sirupsen/logrus"
)

// Bootstrap is invoked when Connect is called without init data, giving
// secondary integrations (CRM sync, chat widgets) a startup hook. The
// gateway wires a no-op by default.
type Bootstrap func(ctx context.Context, instanceID string)

// connState guards the per-adapter connection state. Reads never block on
// in-flight webhook processing.
type connState struct {
	mu    sync.RWMutex
	state channel.ConnectionState
}

func (s *connState) get() channel.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *connState) set(state channel.ConnectionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// adapterCore carries what all provider adapters share: the bound instance,
// its dispatcher, the emitter and the connection state.
type adapterCore struct {
	inst      instanceDomain.Instance
	state     connState
	disp      *Dispatcher
	emit      *emitter.Emitter
	bootstrap Bootstrap
}

func (c *adapterCore) ID() string {
	return c.inst.ID
}

func (c *adapterCore) InstanceName() string {
	return c.inst.Name
}

func (c *adapterCore) Status() channel.ConnectionState {
	return c.state.get()
}

func (c *adapterCore) Disconnect() {
	if c.state.get() == channel.StateClose {
		return
	}
	c.state.set(channel.StateClose)
	logrus.Infof("[%s] Instance %s disconnected", c.inst.Provider, c.inst.Name)
}

func (c *adapterCore) forceClose() {
	c.state.set(channel.StateClose)
	logrus.Errorf("[%s] Forcing close for instance %s after unrecoverable auth failure", c.inst.Provider, c.inst.Name)
}

func (c *adapterCore) ProfileMetadata(ctx context.Context, userID string) channel.ProfileMetadata {
	// Messenger-family providers expose no profile data through this surface.
	return channel.UnknownProfile()
}

// connect implements the shared Connect semantics: nil init data runs the
// bootstrap and leaves the connection state alone; a payload goes through
// the given normalization pipeline, with any failure caught, logged and
// surfaced as a single AdapterError. A malformed single webhook call must
// not tear down an otherwise healthy instance, so state is never touched.
func (c *adapterCore) connect(ctx context.Context, initData []byte, normalize func([]byte) ([]message.InboundEvent, error)) (any, error) {
	if len(initData) == 0 {
		if c.bootstrap != nil {
			c.bootstrap(ctx, c.inst.ID)
		}
		return nil, nil
	}

	events, err := normalize(initData)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"instance": c.inst.Name,
			"provider": c.inst.Provider,
		}).Errorf("[%s] Webhook processing failed: %v", c.inst.Provider, err)
		return nil, pkgError.AdapterError(fmt.Sprintf("webhook processing failed: %v", err))
	}

	return map[string]any{
		"instance": c.inst.Name,
		"events":   len(events),
	}, nil
}

// emitEvents publishes the batch synchronously, in envelope order, before
// Normalize returns. Emission is fire-and-forget for the caller.
func (c *adapterCore) emitEvents(events []message.InboundEvent) {
	if len(events) == 0 || c.emit == nil {
		return
	}
	c.emit.Emit(message.EventMessagesUpsert, emitter.EventPayload{
		InstanceName: c.inst.Name,
		Data:         events,
	})
}
