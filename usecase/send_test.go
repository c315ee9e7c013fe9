package usecase

import (
	"context"
	"testing"

	domainChannel "github.com/AzielCF/az-meta/domains/channel"
	domainInstance "github.com/AzielCF/az-meta/domains/instance"
	domainMessage "github.com/AzielCF/az-meta/domains/message"
	domainSend "github.com/AzielCF/az-meta/domains/send"
	"github.com/AzielCF/az-meta/gateway"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	inst    domainInstance.Instance
	sent    []domainMessage.OutboundRequest
	sendRes domainMessage.SendResult
}

func (s *stubAdapter) ID() string                           { return s.inst.ID }
func (s *stubAdapter) InstanceName() string                 { return s.inst.Name }
func (s *stubAdapter) Provider() domainChannel.ProviderKind { return s.inst.Provider }
func (s *stubAdapter) Connect(ctx context.Context, initData []byte) (any, error) {
	return nil, nil
}
func (s *stubAdapter) Disconnect()                           {}
func (s *stubAdapter) Status() domainChannel.ConnectionState { return domainChannel.StateOpen }
func (s *stubAdapter) Send(ctx context.Context, req domainMessage.OutboundRequest) domainMessage.SendResult {
	s.sent = append(s.sent, req)
	return s.sendRes
}
func (s *stubAdapter) Normalize(raw []byte) ([]domainMessage.InboundEvent, error) { return nil, nil }
func (s *stubAdapter) ProfileMetadata(ctx context.Context, userID string) domainChannel.ProfileMetadata {
	return domainChannel.UnknownProfile()
}

func newSendFixture(t *testing.T, adapter *stubAdapter) domainSend.ISendUsecase {
	t.Helper()

	mgr := gateway.NewManager()
	mgr.RegisterFactory(domainChannel.ProviderFacebook, func(inst domainInstance.Instance) (domainChannel.ChannelAdapter, error) {
		adapter.inst = inst
		return adapter, nil
	})
	_, err := mgr.BindInstance(context.Background(), domainInstance.Instance{
		ID: "inst-1", Name: "pagina", Provider: domainChannel.ProviderFacebook, SenderID: "s", BearerToken: "t",
	})
	require.NoError(t, err)

	return NewSendService(mgr)
}

func TestSendService_Text(t *testing.T) {
	adapter := &stubAdapter{sendRes: domainMessage.Succeeded([]byte(`{"message_id": "sent"}`))}
	svc := newSendFixture(t, adapter)

	result, err := svc.SendText(context.Background(), domainSend.TextRequest{
		InstanceID: "inst-1", Recipient: "123", Message: "hola",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, adapter.sent, 1)
	assert.Equal(t, domainMessage.OutboundText, adapter.sent[0].Kind)
	assert.Equal(t, "123", adapter.sent[0].Recipient)
	assert.Equal(t, "hola", adapter.sent[0].Body)
}

func TestSendService_Media(t *testing.T) {
	adapter := &stubAdapter{sendRes: domainMessage.Succeeded([]byte(`{}`))}
	svc := newSendFixture(t, adapter)

	_, err := svc.SendMedia(context.Background(), domainSend.MediaRequest{
		InstanceID: "inst-1", Recipient: "123", MediaType: "video", URL: "https://cdn/clip.mp4",
	})
	require.NoError(t, err)

	require.Len(t, adapter.sent, 1)
	assert.Equal(t, domainMessage.OutboundMedia, adapter.sent[0].Kind)
	assert.Equal(t, domainMessage.MediaVideo, adapter.sent[0].MediaType)
	assert.Equal(t, "https://cdn/clip.mp4", adapter.sent[0].URL)
}

func TestSendService_UnknownInstance(t *testing.T) {
	svc := NewSendService(gateway.NewManager())

	_, err := svc.SendText(context.Background(), domainSend.TextRequest{
		InstanceID: "nope", Recipient: "123", Message: "hola",
	})
	require.Error(t, err)
	assert.IsType(t, pkgError.NotFoundError(""), err)
}

func TestSendService_ValidationError(t *testing.T) {
	svc := NewSendService(gateway.NewManager())

	_, err := svc.SendText(context.Background(), domainSend.TextRequest{InstanceID: "inst-1"})
	require.Error(t, err)
	assert.IsType(t, pkgError.ValidationError(""), err)
}

// El fallo del proveedor viaja como valor en el resultado, nunca como error.
func TestSendService_ProviderFailureIsValue(t *testing.T) {
	adapter := &stubAdapter{sendRes: domainMessage.Failed(&domainMessage.ProviderError{
		HTTPStatus: 400, Code: 5, Message: "bad recipient",
	})}
	svc := newSendFixture(t, adapter)

	result, err := svc.SendText(context.Background(), domainSend.TextRequest{
		InstanceID: "inst-1", Recipient: "123", Message: "hola",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, 5, result.Failure.Code)
}
