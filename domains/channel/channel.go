package channel

import (
	"context"

	"github.com/AzielCF/az-meta/domains/message"
)

type ProviderKind string

const (
	ProviderBusiness  ProviderKind = "whatsapp-business"
	ProviderFacebook  ProviderKind = "facebook"
	ProviderInstagram ProviderKind = "instagram"
)

// ParseProviderKind resolves the webhook path segment or a config value to a
// provider kind. The business channel keeps its legacy "meta" alias.
func ParseProviderKind(raw string) (ProviderKind, bool) {
	switch raw {
	case "meta", "business", string(ProviderBusiness):
		return ProviderBusiness, true
	case string(ProviderFacebook):
		return ProviderFacebook, true
	case string(ProviderInstagram):
		return ProviderInstagram, true
	}
	return "", false
}

type ConnectionState string

const (
	StateOpen       ConnectionState = "open"
	StateConnecting ConnectionState = "connecting"
	StateClose      ConnectionState = "close"
)

// ProfileMetadata is the capability-gap result for profile lookups. For
// providers that do not expose the data, Known is false and callers must
// treat that as a normal outcome, not an error.
type ProfileMetadata struct {
	Known      bool   `json:"known"`
	Name       string `json:"name,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
	Status     string `json:"status,omitempty"`
}

// UnknownProfile is what every provider without profile data returns.
func UnknownProfile() ProfileMetadata {
	return ProfileMetadata{Known: false}
}

// ChannelAdapter is the contract every provider implementation satisfies.
// One adapter is bound to exactly one instance and owns its connection
// state; Status and Normalize must be safe under concurrent calls.
type ChannelAdapter interface {
	// Identidad
	ID() string
	InstanceName() string
	Provider() ProviderKind

	// Ciclo de vida
	// Connect with nil initData triggers the secondary-integration bootstrap
	// and leaves the connection state untouched. With initData it pushes the
	// raw webhook payload through the normalization pipeline; any pipeline
	// failure is logged and returned as a single pkg/error.AdapterError with
	// the state still unchanged.
	Connect(ctx context.Context, initData []byte) (any, error)
	// Disconnect sets the state to close. Idempotent, never fails.
	Disconnect()
	// Status is a pure read. Never blocks, never fails.
	Status() ConnectionState

	// Mensajería
	// Send translates the canonical request into one provider REST call.
	// REST failures are captured in the result, never raised.
	Send(ctx context.Context, req message.OutboundRequest) message.SendResult
	// Normalize parses a raw provider payload into zero or more canonical
	// events, emitting each one in envelope order before returning.
	Normalize(raw []byte) ([]message.InboundEvent, error)

	// Perfil
	ProfileMetadata(ctx context.Context, userID string) ProfileMetadata
}
