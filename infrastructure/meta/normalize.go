package meta

import (
	"encoding/json"
	"strconv"

	"github.com/AzielCF/az-meta/domains/message"
	"github.com/sirupsen/logrus"
)

// normalizeMessenger maps one Messenger-platform envelope (Facebook Page or
// Instagram Direct, selected by object) to canonical events. Envelopes with
// a different object key produce zero events: providers send heartbeat and
// verification payloads that legitimately carry no conversational content.
// Event order follows the envelope's entry[].messaging[] order.
func normalizeMessenger(raw []byte, object, source, instanceName string) ([]message.InboundEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Object != object {
		return nil, nil
	}

	var events []message.InboundEvent
	for _, ent := range env.Entry {
		for _, leaf := range ent.Messaging {
			var ev messagingEvent
			if err := json.Unmarshal(leaf, &ev); err != nil {
				logrus.Debugf("[%s] Skipping unparseable messaging event: %v", source, err)
				continue
			}

			payload, ok := classifyMessaging(ev, leaf)
			if !ok {
				logrus.Debugf("[%s] Dropping unmodeled messaging event for instance %s", source, instanceName)
				continue
			}

			// Downstream consumers key conversations by sender; an event
			// without one cannot be routed anywhere.
			if ev.Sender.ID == "" {
				logrus.Warnf("[%s] Dropping event with empty sender for instance %s", source, instanceName)
				continue
			}

			events = append(events, message.InboundEvent{
				Source:       source,
				InstanceName: instanceName,
				SenderID:     ev.Sender.ID,
				MessageID:    messagingEventID(ev),
				Timestamp:    ev.Timestamp,
				Payload:      payload,
			})
		}
	}
	return events, nil
}

func classifyMessaging(ev messagingEvent, leaf json.RawMessage) (message.Payload, bool) {
	switch {
	case ev.Message != nil:
		if ev.Message.Text == "" && len(ev.Message.Attachments) > 0 {
			// Media-only message: passed through raw, classification is a
			// downstream concern.
			return message.Payload{Kind: message.KindUnsupported, Raw: leaf}, true
		}
		return message.Payload{Kind: message.KindText, Body: ev.Message.Text}, true
	case ev.Postback != nil:
		return message.Payload{Kind: message.KindPostback, Postback: ev.Postback.Payload}, true
	default:
		// Delivery receipts, read events, reactions: not modeled yet.
		return message.Payload{}, false
	}
}

func messagingEventID(ev messagingEvent) string {
	if ev.Message != nil {
		return ev.Message.MID
	}
	if ev.Postback != nil {
		return ev.Postback.MID
	}
	return ""
}

// normalizeCloud maps a WhatsApp Cloud envelope to canonical events. The
// batching levels are entry[].changes[].value.messages[] instead of the
// Messenger messaging list, but the mapping rules are the same.
func normalizeCloud(raw []byte, instanceName string) ([]message.InboundEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Object != objectWhatsApp {
		return nil, nil
	}

	source := "whatsapp-business"
	var events []message.InboundEvent
	for _, ent := range env.Entry {
		for _, ch := range ent.Changes {
			if ch.Field != "" && ch.Field != "messages" {
				continue
			}
			for _, leaf := range ch.Value.Messages {
				var msg cloudMessage
				if err := json.Unmarshal(leaf, &msg); err != nil {
					logrus.Debugf("[%s] Skipping unparseable cloud message: %v", source, err)
					continue
				}
				if msg.From == "" {
					logrus.Warnf("[%s] Dropping event with empty sender for instance %s", source, instanceName)
					continue
				}

				ts, _ := strconv.ParseInt(msg.Timestamp, 10, 64)
				events = append(events, message.InboundEvent{
					Source:       source,
					InstanceName: instanceName,
					SenderID:     msg.From,
					MessageID:    msg.ID,
					Timestamp:    ts,
					Payload:      classifyCloud(msg, leaf),
				})
			}
		}
	}
	return events, nil
}

func classifyCloud(msg cloudMessage, leaf json.RawMessage) message.Payload {
	switch {
	case msg.Text != nil:
		return message.Payload{Kind: message.KindText, Body: msg.Text.Body}
	case msg.Button != nil:
		return message.Payload{Kind: message.KindPostback, Postback: msg.Button.Payload}
	case msg.Interactive != nil && msg.Interactive.ButtonReply != nil:
		return message.Payload{Kind: message.KindPostback, Postback: msg.Interactive.ButtonReply.ID}
	case msg.Interactive != nil && msg.Interactive.ListReply != nil:
		return message.Payload{Kind: message.KindPostback, Postback: msg.Interactive.ListReply.ID}
	default:
		return message.Payload{Kind: message.KindUnsupported, Raw: leaf}
	}
}
