package webhookfwd

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/pkg/emitter"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/sirupsen/logrus"
)

const submitTimeout = 10 * time.Second

// Forwarder delivers emitted canonical events to the configured downstream
// webhook URLs. Delivery is best-effort: it only reports an error when
// every target fails, so one broken consumer cannot starve the rest.
type Forwarder struct {
	urls   []string
	secret string
	client *http.Client
}

func NewForwarder(cfg config.WebhookConfig) *Forwarder {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return &Forwarder{
		urls:   cfg.URLs,
		secret: cfg.Secret,
		client: &http.Client{Timeout: submitTimeout, Transport: transport},
	}
}

// HandleEvent is the emitter subscription entry point. Forwarding runs in
// its own goroutine so a slow consumer never delays the webhook response.
func (f *Forwarder) HandleEvent(event string, payload emitter.EventPayload) {
	if len(f.urls) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout*time.Duration(len(f.urls)))
		defer cancel()
		if err := f.Forward(ctx, event, payload); err != nil {
			logrus.WithField("event", event).Errorf("[WEBHOOK] %v", err)
		}
	}()
}

// Forward attempts delivery to every configured URL. Partial failures are
// logged and suppressed so successful targets still receive the event.
func (f *Forwarder) Forward(ctx context.Context, event string, payload emitter.EventPayload) error {
	total := len(f.urls)
	if total == 0 {
		logrus.WithField("event", event).Debug("[WEBHOOK] No webhook configured; skipping dispatch")
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return pkgError.WebhookError(fmt.Sprintf("marshal payload for %s: %v", event, err))
	}

	var failed []string
	for _, url := range f.urls {
		if err := f.submit(ctx, url, body); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", url, err))
			logrus.Warnf("[WEBHOOK] Failed forwarding %s to %s: %v", event, url, err)
		}
	}

	if len(failed) == total {
		return pkgError.WebhookError(fmt.Sprintf("all webhook URLs failed for %s: %s", event, strings.Join(failed, "; ")))
	}
	if len(failed) > 0 {
		logrus.Warnf("[WEBHOOK] Some webhook URLs failed for %s (succeeded: %d/%d)", event, total-len(failed), total)
	}
	return nil
}

func (f *Forwarder) submit(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.secret != "" {
		mac := hmac.New(sha256.New, []byte(f.secret))
		mac.Write(body)
		req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
