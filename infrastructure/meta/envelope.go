package meta

import "encoding/json"

// Envelope object keys used to classify inbound webhook payloads. Anything
// else is unsupported and normalizes to zero events.
const (
	objectPage      = "page"
	objectInstagram = "instagram"
	objectWhatsApp  = "whatsapp_business_account"
)

// envelope is the shared top-level shape of Meta webhook deliveries. Leaf
// events stay raw so unsupported payloads can be passed through verbatim.
type envelope struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID        string            `json:"id"`
	Time      int64             `json:"time"`
	Messaging []json.RawMessage `json:"messaging"`
	Changes   []change          `json:"changes"`
}

// messagingEvent is one Messenger-platform leaf event (Facebook Page or
// Instagram Direct).
type messagingEvent struct {
	Sender    party            `json:"sender"`
	Recipient party            `json:"recipient"`
	Timestamp int64            `json:"timestamp"`
	Message   *messageContent  `json:"message"`
	Postback  *postbackContent `json:"postback"`
}

type party struct {
	ID string `json:"id"`
}

type messageContent struct {
	MID         string            `json:"mid"`
	Text        string            `json:"text"`
	Attachments []json.RawMessage `json:"attachments"`
}

type postbackContent struct {
	MID     string `json:"mid"`
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// change is the WhatsApp Cloud batching level below entry.
type change struct {
	Field string      `json:"field"`
	Value changeValue `json:"value"`
}

type changeValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Messages         []json.RawMessage `json:"messages"`
}

// cloudMessage is one WhatsApp Cloud leaf message.
type cloudMessage struct {
	From        string            `json:"from"`
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Type        string            `json:"type"`
	Text        *cloudText        `json:"text"`
	Button      *cloudButton      `json:"button"`
	Interactive *cloudInteractive `json:"interactive"`
}

type cloudText struct {
	Body string `json:"body"`
}

type cloudButton struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

type cloudInteractive struct {
	Type        string `json:"type"`
	ButtonReply *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"button_reply"`
	ListReply *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"list_reply"`
}
