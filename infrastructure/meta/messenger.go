package meta

import (
	"context"

	"github.com/AzielCF/az-meta/domains/channel"
	"github.com/AzielCF/az-meta/domains/message"
)

// messengerAdapter implements the channel contract for the two Messenger
// platform providers (Facebook Page, Instagram Direct), which share wire
// format and send shapes and differ only in envelope object key and tag.
type messengerAdapter struct {
	adapterCore
	kind   channel.ProviderKind
	object string
	source string
}

func (m *messengerAdapter) Provider() channel.ProviderKind {
	return m.kind
}

func (m *messengerAdapter) Connect(ctx context.Context, initData []byte) (any, error) {
	return m.connect(ctx, initData, m.Normalize)
}

func (m *messengerAdapter) Normalize(raw []byte) ([]message.InboundEvent, error) {
	events, err := normalizeMessenger(raw, m.object, m.source, m.inst.Name)
	if err != nil {
		return nil, err
	}
	m.emitEvents(events)
	return events, nil
}

func (m *messengerAdapter) Send(ctx context.Context, req message.OutboundRequest) message.SendResult {
	var content map[string]any
	switch req.Kind {
	case message.OutboundText:
		content = map[string]any{"text": req.Body}
	case message.OutboundMedia:
		content = map[string]any{
			"attachment": map[string]any{
				"type":    messengerAttachmentType(req.MediaType),
				"payload": map[string]any{"url": req.URL},
			},
		}
	default:
		return message.Failed(&message.ProviderError{Message: "unsupported outbound kind: " + string(req.Kind)})
	}

	body := map[string]any{
		"recipient": map[string]any{"id": req.Recipient},
		"message":   content,
	}
	return m.disp.Post(ctx, "messages", body)
}

// messengerAttachmentType maps canonical media types to the Messenger
// attachment vocabulary, which calls documents "file".
func messengerAttachmentType(mt message.MediaType) string {
	if mt == message.MediaDocument {
		return "file"
	}
	return string(mt)
}
