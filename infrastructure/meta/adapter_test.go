package meta

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/domains/message"
	"github.com/AzielCF/az-meta/pkg/emitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance(provider channel.ProviderKind) instanceDomain.Instance {
	return instanceDomain.Instance{
		ID:          "inst-1",
		Name:        "mi-canal",
		Provider:    provider,
		SenderID:    "sender-9",
		BearerToken: "token-abc",
	}
}

const facebookTextEnvelope = `{
	"object": "page",
	"entry": [{
		"messaging": [{
			"sender": {"id": "123"},
			"timestamp": 1000,
			"message": {"mid": "m1", "text": "hi"}
		}]
	}]
}`

func TestAdapterConnect_NilInitDataRunsBootstrap(t *testing.T) {
	var bootstrapped []string
	adapter := NewFacebookAdapter(testInstance(channel.ProviderFacebook), testProviderConfig(), emitter.New(),
		func(ctx context.Context, instanceID string) {
			bootstrapped = append(bootstrapped, instanceID)
		})

	res, err := adapter.Connect(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, []string{"inst-1"}, bootstrapped)
	// El estado de conexion no se toca.
	assert.Equal(t, channel.StateOpen, adapter.Status())
}

func TestAdapterConnect_EmitsNormalizedEvents(t *testing.T) {
	bus := emitter.New()
	var gotEvent string
	var gotPayload emitter.EventPayload
	bus.Subscribe(func(event string, payload emitter.EventPayload) {
		gotEvent = event
		gotPayload = payload
	})

	adapter := NewFacebookAdapter(testInstance(channel.ProviderFacebook), testProviderConfig(), bus, nil)

	res, err := adapter.Connect(context.Background(), []byte(facebookTextEnvelope))
	require.NoError(t, err)

	summary, ok := res.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mi-canal", summary["instance"])
	assert.Equal(t, 1, summary["events"])

	assert.Equal(t, message.EventMessagesUpsert, gotEvent)
	assert.Equal(t, "mi-canal", gotPayload.InstanceName)
	require.Len(t, gotPayload.Data, 1)
	assert.Equal(t, "hi", gotPayload.Data[0].Payload.Body)
}

func TestAdapterConnect_MalformedPayloadKeepsState(t *testing.T) {
	adapter := NewFacebookAdapter(testInstance(channel.ProviderFacebook), testProviderConfig(), emitter.New(), nil)

	_, err := adapter.Connect(context.Background(), []byte(`{"object": `))
	require.Error(t, err)
	assert.Equal(t, channel.StateOpen, adapter.Status())
}

func TestAdapterDisconnect_Idempotent(t *testing.T) {
	adapter := NewInstagramAdapter(testInstance(channel.ProviderInstagram), testProviderConfig(), emitter.New(), nil)
	require.Equal(t, channel.StateOpen, adapter.Status())

	adapter.Disconnect()
	assert.Equal(t, channel.StateClose, adapter.Status())

	adapter.Disconnect()
	assert.Equal(t, channel.StateClose, adapter.Status())
}

func TestAdapterProfileMetadata_Unknown(t *testing.T) {
	adapter := NewFacebookAdapter(testInstance(channel.ProviderFacebook), testProviderConfig(), emitter.New(), nil)

	profile := adapter.ProfileMetadata(context.Background(), "123")
	assert.False(t, profile.Known)
}

func TestMessengerSend_TextShape(t *testing.T) {
	var gotBody []byte
	swapTransport(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotBody, _ = io.ReadAll(req.Body)
		return httpResponse(200, `{"message_id": "sent"}`), nil
	}))

	adapter := NewFacebookAdapter(testInstance(channel.ProviderFacebook), testProviderConfig(), emitter.New(), nil)
	result := adapter.Send(context.Background(), message.NewTextRequest("123", "hola"))

	require.True(t, result.Success)
	assert.JSONEq(t, `{"recipient": {"id": "123"}, "message": {"text": "hola"}}`, string(gotBody))
}

func TestMessengerSend_MediaShape(t *testing.T) {
	var gotBody []byte
	swapTransport(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotBody, _ = io.ReadAll(req.Body)
		return httpResponse(200, `{}`), nil
	}))

	adapter := NewInstagramAdapter(testInstance(channel.ProviderInstagram), testProviderConfig(), emitter.New(), nil)
	result := adapter.Send(context.Background(), message.NewMediaRequest("123", message.MediaDocument, "https://cdn/doc.pdf"))

	require.True(t, result.Success)
	// Messenger llama "file" a los documentos.
	assert.JSONEq(t, `{
		"recipient": {"id": "123"},
		"message": {"attachment": {"type": "file", "payload": {"url": "https://cdn/doc.pdf"}}}
	}`, string(gotBody))
}

func TestBusinessAdapter_StartHandshake(t *testing.T) {
	swapTransport(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return httpResponse(200, `{"id": "sender-9"}`), nil
	}))

	adapter := NewBusinessAdapter(testInstance(channel.ProviderBusiness), testProviderConfig(), emitter.New(), nil)
	assert.Equal(t, channel.StateConnecting, adapter.Status())

	require.NoError(t, adapter.Start(context.Background()))
	assert.Equal(t, channel.StateOpen, adapter.Status())
}

func TestBusinessAdapter_StartFailureStaysConnecting(t *testing.T) {
	swapTransport(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return httpResponse(500, `{}`), nil
	}))

	adapter := NewBusinessAdapter(testInstance(channel.ProviderBusiness), testProviderConfig(), emitter.New(), nil)
	require.Error(t, adapter.Start(context.Background()))
	assert.Equal(t, channel.StateConnecting, adapter.Status())
}

func TestBusinessSend_CloudShapes(t *testing.T) {
	var bodies [][]byte
	swapTransport(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		bodies = append(bodies, b)
		return httpResponse(200, `{}`), nil
	}))

	adapter := NewBusinessAdapter(testInstance(channel.ProviderBusiness), testProviderConfig(), emitter.New(), nil)

	adapter.Send(context.Background(), message.NewTextRequest("5215550001111", "hola"))
	adapter.Send(context.Background(), message.NewMediaRequest("5215550001111", message.MediaImage, "https://cdn/img.png"))

	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{
		"messaging_product": "whatsapp",
		"recipient_type": "individual",
		"to": "5215550001111",
		"type": "text",
		"text": {"body": "hola", "preview_url": false}
	}`, string(bodies[0]))
	assert.JSONEq(t, `{
		"messaging_product": "whatsapp",
		"recipient_type": "individual",
		"to": "5215550001111",
		"type": "image",
		"image": {"link": "https://cdn/img.png"}
	}`, string(bodies[1]))
}

func TestAdapter_AuthFailureStreakForcesClose(t *testing.T) {
	swapTransport(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return httpResponse(401, `{"error": {"code": 190, "message": "expired"}}`), nil
	}))

	adapter := NewFacebookAdapter(testInstance(channel.ProviderFacebook), testProviderConfig(), emitter.New(), nil)
	require.Equal(t, channel.StateOpen, adapter.Status())

	for i := 0; i < 3; i++ {
		adapter.Send(context.Background(), message.NewTextRequest("123", "hola"))
	}
	assert.Equal(t, channel.StateClose, adapter.Status())
}
