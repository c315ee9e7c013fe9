package meta

import (
	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/pkg/emitter"
)

// NewInstagramAdapter binds one Instagram Direct messaging instance.
// Instagram rides the same Graph surface as Facebook Pages; story mentions
// and replies arrive as unmodeled events and are dropped at debug level.
func NewInstagramAdapter(inst instanceDomain.Instance, cfg config.ProviderConfig, emit *emitter.Emitter, bootstrap Bootstrap) channel.ChannelAdapter {
	a := &messengerAdapter{
		adapterCore: adapterCore{
			inst:      inst,
			disp:      NewDispatcher(cfg, inst.SenderID, inst.BearerToken),
			emit:      emit,
			bootstrap: bootstrap,
		},
		kind:   channel.ProviderInstagram,
		object: objectInstagram,
		source: "instagram",
	}
	a.state.set(channel.StateOpen)
	a.disp.OnAuthFailure(a.forceClose)
	return a
}
