package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/domains/message"
	"github.com/sirupsen/logrus"
)

const defaultRESTTimeout = 15 * time.Second

// authFailureThreshold is how many consecutive 401 responses mark the
// credentials as unrecoverable.
const authFailureThreshold = 3

// httpClient is shared by all dispatchers; tests swap its transport.
var httpClient = &http.Client{Timeout: defaultRESTTimeout}

// Dispatcher is the shared outbound REST helper injected into each adapter.
// It owns URL building, bearer auth and the translation of transport/HTTP
// failures into ProviderError values. It never raises past its boundary.
type Dispatcher struct {
	cfg      config.ProviderConfig
	senderID string
	token    string

	consecutive401 int32
	onAuthFailure  func()
}

func NewDispatcher(cfg config.ProviderConfig, senderID, token string) *Dispatcher {
	return &Dispatcher{cfg: cfg, senderID: senderID, token: token}
}

// OnAuthFailure registers the callback fired once the consecutive-401
// threshold is reached. The owning adapter uses it to force close.
func (d *Dispatcher) OnAuthFailure(fn func()) {
	d.onAuthFailure = fn
}

func (d *Dispatcher) url(endpoint string) string {
	base := fmt.Sprintf("%s/%s/%s", d.cfg.BaseURL, d.cfg.APIVersion, d.senderID)
	if endpoint == "" {
		return base
	}
	return base + "/" + endpoint
}

func (d *Dispatcher) timeout() time.Duration {
	if d.cfg.Timeout > 0 {
		return time.Duration(d.cfg.Timeout) * time.Second
	}
	return defaultRESTTimeout
}

// Post issues exactly one provider REST call and returns a canonical result.
// Transport errors and non-2xx responses become SendResult failures; the
// provider's structured error body is extracted when present.
func (d *Dispatcher) Post(ctx context.Context, endpoint string, body any) message.SendResult {
	payload, err := json.Marshal(body)
	if err != nil {
		return message.Failed(&message.ProviderError{Message: fmt.Sprintf("marshal request: %v", err)})
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url(endpoint), bytes.NewReader(payload))
	if err != nil {
		return message.Failed(&message.ProviderError{Message: fmt.Sprintf("build request: %v", err)})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.token)

	resp, err := httpClient.Do(req)
	if err != nil {
		logrus.Warnf("[DISPATCH] Transport error posting to %s: %v", d.url(endpoint), err)
		return message.Failed(&message.ProviderError{Message: err.Error()})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return message.Failed(&message.ProviderError{HTTPStatus: resp.StatusCode, Message: err.Error()})
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		atomic.StoreInt32(&d.consecutive401, 0)
		return message.Succeeded(raw)
	}

	d.trackAuthFailure(resp.StatusCode)
	return message.Failed(d.extractError(resp.StatusCode, raw))
}

// Probe checks the configured credentials with one GET against the sender
// node. Used by the business adapter's connection handshake.
func (d *Dispatcher) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url(""), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		atomic.StoreInt32(&d.consecutive401, 0)
		return nil
	}
	d.trackAuthFailure(resp.StatusCode)
	return fmt.Errorf("credential probe failed with status %d", resp.StatusCode)
}

func (d *Dispatcher) trackAuthFailure(status int) {
	if status != http.StatusUnauthorized {
		atomic.StoreInt32(&d.consecutive401, 0)
		return
	}
	if atomic.AddInt32(&d.consecutive401, 1) == authFailureThreshold && d.onAuthFailure != nil {
		logrus.Errorf("[DISPATCH] %d consecutive 401 responses for sender %s, marking credentials unrecoverable", authFailureThreshold, d.senderID)
		d.onAuthFailure()
	}
}

// providerErrorBody is the structured error Meta returns on failures.
type providerErrorBody struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (d *Dispatcher) extractError(status int, raw []byte) *message.ProviderError {
	var body providerErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil {
		return &message.ProviderError{HTTPStatus: status, Code: body.Error.Code, Message: body.Error.Message}
	}
	return &message.ProviderError{HTTPStatus: status, Message: http.StatusText(status)}
}
