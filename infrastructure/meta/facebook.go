package meta

import (
	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/pkg/emitter"
)

// NewFacebookAdapter binds one Facebook Page messaging instance. Page
// channels have no connection handshake, so they start open.
func NewFacebookAdapter(inst instanceDomain.Instance, cfg config.ProviderConfig, emit *emitter.Emitter, bootstrap Bootstrap) channel.ChannelAdapter {
	a := &messengerAdapter{
		adapterCore: adapterCore{
			inst:      inst,
			disp:      NewDispatcher(cfg, inst.SenderID, inst.BearerToken),
			emit:      emit,
			bootstrap: bootstrap,
		},
		kind:   channel.ProviderFacebook,
		object: objectPage,
		source: "facebook",
	}
	a.state.set(channel.StateOpen)
	a.disp.OnAuthFailure(a.forceClose)
	return a
}
