package meta

import (
	"context"

	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/domains/message"
	"github.com/AzielCF/az-meta/pkg/emitter"
	"github.com/sirupsen/logrus"
)

// BusinessAdapter implements the channel contract for the generic
// WhatsApp-Business-style cloud API. Unlike the Messenger providers it has
// a connection handshake: a credential probe moves connecting -> open.
type BusinessAdapter struct {
	adapterCore
}

func NewBusinessAdapter(inst instanceDomain.Instance, cfg config.ProviderConfig, emit *emitter.Emitter, bootstrap Bootstrap) *BusinessAdapter {
	a := &BusinessAdapter{
		adapterCore: adapterCore{
			inst:      inst,
			disp:      NewDispatcher(cfg, inst.SenderID, inst.BearerToken),
			emit:      emit,
			bootstrap: bootstrap,
		},
	}
	a.state.set(channel.StateConnecting)
	a.disp.OnAuthFailure(a.forceClose)
	return a
}

func (b *BusinessAdapter) Provider() channel.ProviderKind {
	return channel.ProviderBusiness
}

// Start probes the configured credentials once. Success opens the
// connection; anything else leaves it connecting so a later valid webhook
// or send can still prove the channel alive.
func (b *BusinessAdapter) Start(ctx context.Context) error {
	if err := b.disp.Probe(ctx); err != nil {
		logrus.Warnf("[%s] Credential probe failed for instance %s: %v", channel.ProviderBusiness, b.inst.Name, err)
		return err
	}
	b.state.set(channel.StateOpen)
	logrus.Infof("[%s] Instance %s connected", channel.ProviderBusiness, b.inst.Name)
	return nil
}

func (b *BusinessAdapter) Connect(ctx context.Context, initData []byte) (any, error) {
	return b.connect(ctx, initData, b.Normalize)
}

func (b *BusinessAdapter) Normalize(raw []byte) ([]message.InboundEvent, error) {
	events, err := normalizeCloud(raw, b.inst.Name)
	if err != nil {
		return nil, err
	}
	b.emitEvents(events)
	return events, nil
}

func (b *BusinessAdapter) Send(ctx context.Context, req message.OutboundRequest) message.SendResult {
	var body map[string]any
	switch req.Kind {
	case message.OutboundText:
		body = map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                req.Recipient,
			"type":              "text",
			"text":              map[string]any{"body": req.Body, "preview_url": false},
		}
	case message.OutboundMedia:
		body = map[string]any{
			"messaging_product":   "whatsapp",
			"recipient_type":      "individual",
			"to":                  req.Recipient,
			"type":                string(req.MediaType),
			string(req.MediaType): map[string]any{"link": req.URL},
		}
	default:
		return message.Failed(&message.ProviderError{Message: "unsupported outbound kind: " + string(req.Kind)})
	}
	return b.disp.Post(ctx, "messages", body)
}
