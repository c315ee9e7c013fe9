package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/sirupsen/logrus"
)

// AdapterFactory builds the adapter for one instance of a provider kind.
type AdapterFactory func(inst instanceDomain.Instance) (channel.ChannelAdapter, error)

// starter is implemented by adapters with a connection handshake.
type starter interface {
	Start(ctx context.Context) error
}

// Manager owns the 1:1 mapping from instance to adapter. Each instance's
// mutable state lives inside its own adapter; the manager only guards the
// registry maps, so webhook handling across instances never shares state.
type Manager struct {
	mu        sync.RWMutex
	factories map[channel.ProviderKind]AdapterFactory
	adapters  map[string]channel.ChannelAdapter
	instances map[string]instanceDomain.Instance
}

func NewManager() *Manager {
	return &Manager{
		factories: make(map[channel.ProviderKind]AdapterFactory),
		adapters:  make(map[string]channel.ChannelAdapter),
		instances: make(map[string]instanceDomain.Instance),
	}
}

func (m *Manager) RegisterFactory(kind channel.ProviderKind, factory AdapterFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[kind] = factory
}

// BindInstance creates the adapter for the instance through its provider
// factory and registers the pair. Adapters with a handshake are started;
// a failed handshake is logged but keeps the binding, since the adapter
// reports its own state.
func (m *Manager) BindInstance(ctx context.Context, inst instanceDomain.Instance) (channel.ChannelAdapter, error) {
	m.mu.Lock()
	factory, ok := m.factories[inst.Provider]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("no adapter factory registered for provider %s", inst.Provider)
	}
	if _, exists := m.instances[inst.ID]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("instance %s already bound", inst.ID)
	}
	m.mu.Unlock()

	adapter, err := factory(inst)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s adapter: %w", inst.Provider, err)
	}

	if s, ok := adapter.(starter); ok {
		if err := s.Start(ctx); err != nil {
			logrus.Warnf("[GATEWAY] Handshake pending for instance %s: %v", inst.Name, err)
		}
	}

	m.mu.Lock()
	m.adapters[inst.ID] = adapter
	m.instances[inst.ID] = inst
	m.mu.Unlock()

	logrus.Infof("[GATEWAY] Bound instance %s (%s) to %s adapter", inst.Name, inst.ID, inst.Provider)
	return adapter, nil
}

func (m *Manager) GetAdapter(instanceID string) (channel.ChannelAdapter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	adapter, ok := m.adapters[instanceID]
	return adapter, ok
}

func (m *Manager) GetInstance(instanceID string) (instanceDomain.Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[instanceID]
	return inst, ok
}

// AdaptersByProvider returns every adapter bound to the given provider
// kind. Webhook deliveries address a provider path, not an instance, so the
// router fans the payload out to each of them.
func (m *Manager) AdaptersByProvider(kind channel.ProviderKind) []channel.ChannelAdapter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []channel.ChannelAdapter
	for id, adapter := range m.adapters {
		if m.instances[id].Provider == kind {
			out = append(out, adapter)
		}
	}
	return out
}

// ListInstances returns all bound instances with their live connection
// state filled in.
func (m *Manager) ListInstances() []instanceDomain.Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]instanceDomain.Instance, 0, len(m.instances))
	for id, inst := range m.instances {
		inst.State = string(m.adapters[id].Status())
		out = append(out, inst)
	}
	return out
}

// RemoveInstance disconnects the adapter and drops the binding.
func (m *Manager) RemoveInstance(instanceID string) error {
	m.mu.Lock()
	adapter, ok := m.adapters[instanceID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("instance %s not found", instanceID)
	}
	inst := m.instances[instanceID]
	delete(m.adapters, instanceID)
	delete(m.instances, instanceID)
	m.mu.Unlock()

	adapter.Disconnect()
	logrus.Infof("[GATEWAY] Unbound instance %s (%s)", inst.Name, instanceID)
	return nil
}
