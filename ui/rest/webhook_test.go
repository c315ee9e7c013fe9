package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/domains/channel"
	instanceDomain "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/domains/message"
	"github.com/AzielCF/az-meta/gateway"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	inst       instanceDomain.Instance
	gotConnect [][]byte
	connectRes any
	connectErr error
}

func (f *fakeAdapter) ID() string                     { return f.inst.ID }
func (f *fakeAdapter) InstanceName() string           { return f.inst.Name }
func (f *fakeAdapter) Provider() channel.ProviderKind { return f.inst.Provider }
func (f *fakeAdapter) Connect(ctx context.Context, initData []byte) (any, error) {
	f.gotConnect = append(f.gotConnect, initData)
	return f.connectRes, f.connectErr
}
func (f *fakeAdapter) Disconnect()                     {}
func (f *fakeAdapter) Status() channel.ConnectionState { return channel.StateOpen }
func (f *fakeAdapter) Send(ctx context.Context, req message.OutboundRequest) message.SendResult {
	return message.SendResult{}
}
func (f *fakeAdapter) Normalize(raw []byte) ([]message.InboundEvent, error) { return nil, nil }
func (f *fakeAdapter) ProfileMetadata(ctx context.Context, userID string) channel.ProfileMetadata {
	return channel.UnknownProfile()
}

func setupWebhookApp(t *testing.T, adapters ...*fakeAdapter) *fiber.App {
	t.Helper()

	origGlobal := config.Global
	t.Cleanup(func() { config.Global = origGlobal })
	config.Global = &config.Config{
		Providers: config.ProvidersConfig{
			Business:  config.ProviderConfig{VerifyToken: "wa-token"},
			Facebook:  config.ProviderConfig{VerifyToken: "fb-token"},
			Instagram: config.ProviderConfig{VerifyToken: "ig-token"},
		},
	}

	mgr := gateway.NewManager()
	for _, a := range adapters {
		adapter := a
		mgr.RegisterFactory(adapter.inst.Provider, func(inst instanceDomain.Instance) (channel.ChannelAdapter, error) {
			return adapter, nil
		})
		_, err := mgr.BindInstance(context.Background(), adapter.inst)
		require.NoError(t, err)
	}

	app := fiber.New()
	InitRestWebhook(app, mgr)
	return app
}

func TestWebhookVerify_TokenMatchEchoesChallenge(t *testing.T) {
	app := setupWebhookApp(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/facebook?hub.mode=subscribe&hub.verify_token=fb-token&hub.challenge=reto-123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "reto-123", string(body))
}

func TestWebhookVerify_TokenMismatchStillOK(t *testing.T) {
	app := setupWebhookApp(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/instagram?hub.verify_token=incorrecto&hub.challenge=reto", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// El handshake de Meta espera 200 con el literal, no un error HTTP.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Error, wrong validation token", string(body))
}

func TestWebhookVerify_UnknownProvider(t *testing.T) {
	app := setupWebhookApp(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/telegram?hub.verify_token=x", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhookReceive_FansOutToProviderAdapters(t *testing.T) {
	fb := &fakeAdapter{
		inst:       instanceDomain.Instance{ID: "fb1", Name: "pagina", Provider: channel.ProviderFacebook},
		connectRes: map[string]any{"instance": "pagina", "events": 1},
	}
	ig := &fakeAdapter{
		inst: instanceDomain.Instance{ID: "ig1", Name: "insta", Provider: channel.ProviderInstagram},
	}
	app := setupWebhookApp(t, fb, ig)

	payload := []byte(`{"object": "page", "entry": []}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/facebook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, fb.gotConnect, 1)
	assert.JSONEq(t, string(payload), string(fb.gotConnect[0]))
	// El adapter de instagram no recibe entregas de facebook.
	assert.Empty(t, ig.gotConnect)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"instance": "pagina", "events": 1}`, string(body))
}

func TestWebhookReceive_AdapterErrorStillOK(t *testing.T) {
	fb := &fakeAdapter{
		inst:       instanceDomain.Instance{ID: "fb1", Name: "pagina", Provider: channel.ProviderFacebook},
		connectErr: errors.New("pipeline roto"),
	}
	app := setupWebhookApp(t, fb)

	req := httptest.NewRequest(http.MethodPost, "/webhook/facebook", bytes.NewReader([]byte(`{"object": "page"}`)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Un 200 incondicional evita tormentas de reintentos del proveedor.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookReceive_NoBoundInstances(t *testing.T) {
	app := setupWebhookApp(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/meta", bytes.NewReader([]byte(`{}`)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
