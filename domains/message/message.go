package message

import "encoding/json"

// Events emitted through the gateway emitter.
const (
	EventMessagesUpsert = "messages.upsert"
)

type Kind string

const (
	KindText        Kind = "text"
	KindPostback    Kind = "postback"
	KindUnsupported Kind = "unsupported"
)

// Payload is the tagged union carried by an InboundEvent. Exactly the fields
// matching Kind are meaningful; Raw keeps the provider leaf verbatim for
// unsupported payloads so downstream consumers can still inspect them.
type Payload struct {
	Kind     Kind            `json:"kind"`
	Body     string          `json:"body,omitempty"`
	Postback string          `json:"postback,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// InboundEvent is the canonical, provider-agnostic representation of one
// received message or interaction. SenderID is opaque but uniquely resolves
// to a conversation; MessageID is provider-native and left to downstream
// consumers for dedup.
type InboundEvent struct {
	Source       string  `json:"source"`
	InstanceName string  `json:"instance_name"`
	SenderID     string  `json:"sender_id"`
	MessageID    string  `json:"message_id"`
	Timestamp    int64   `json:"timestamp"`
	Payload      Payload `json:"payload"`
}

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

type OutboundKind string

const (
	OutboundText  OutboundKind = "text"
	OutboundMedia OutboundKind = "media"
)

// OutboundRequest is the canonical send request union. Adapters never retain
// it beyond the duration of one Send call.
type OutboundRequest struct {
	Kind      OutboundKind `json:"kind"`
	Recipient string       `json:"recipient"`
	Body      string       `json:"body,omitempty"`
	MediaType MediaType    `json:"media_type,omitempty"`
	URL       string       `json:"url,omitempty"`
}

func NewTextRequest(recipient, body string) OutboundRequest {
	return OutboundRequest{Kind: OutboundText, Recipient: recipient, Body: body}
}

func NewMediaRequest(recipient string, mediaType MediaType, url string) OutboundRequest {
	return OutboundRequest{Kind: OutboundMedia, Recipient: recipient, MediaType: mediaType, URL: url}
}

// ProviderError is a provider REST failure carried as a value inside
// SendResult. It is never raised past the adapter boundary.
type ProviderError struct {
	HTTPStatus int    `json:"http_status"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *ProviderError) Error() string {
	return e.Message
}

// SendResult is the outcome of exactly one outbound request. Either Response
// holds the provider reply verbatim or Failure describes why it never
// arrived. No partial success.
type SendResult struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response,omitempty"`
	Failure  *ProviderError  `json:"failure,omitempty"`
}

func Succeeded(raw json.RawMessage) SendResult {
	return SendResult{Success: true, Response: raw}
}

func Failed(err *ProviderError) SendResult {
	return SendResult{Success: false, Failure: err}
}
