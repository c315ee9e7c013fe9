package rest

import (
	"github.com/AzielCF/az-meta/core/config"
	domainChannel "github.com/AzielCF/az-meta/domains/channel"
	"github.com/AzielCF/az-meta/gateway"
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// wrongTokenResponse is a compatibility contract with the provider's
// verification handshake, which expects 200 with this exact body on a
// token mismatch, not an HTTP error.
const wrongTokenResponse = "Error, wrong validation token"

type Webhook struct {
	Manager *gateway.Manager
}

func InitRestWebhook(app fiber.Router, manager *gateway.Manager) Webhook {
	rest := Webhook{Manager: manager}
	app.Get("/webhook/:provider", rest.Verify)
	app.Post("/webhook/:provider", rest.Receive)
	return rest
}

func (handler *Webhook) resolveProvider(c *fiber.Ctx) (domainChannel.ProviderKind, config.ProviderConfig, bool) {
	kind, ok := domainChannel.ParseProviderKind(c.Params("provider"))
	if !ok || config.Global == nil {
		return "", config.ProviderConfig{}, false
	}

	switch kind {
	case domainChannel.ProviderBusiness:
		return kind, config.Global.Providers.Business, true
	case domainChannel.ProviderFacebook:
		return kind, config.Global.Providers.Facebook, true
	case domainChannel.ProviderInstagram:
		return kind, config.Global.Providers.Instagram, true
	}
	return "", config.ProviderConfig{}, false
}

// Verify answers the provider's webhook verification handshake: echo the
// challenge on a token match, the fixed error string otherwise, 200 always.
func (handler *Webhook) Verify(c *fiber.Ctx) error {
	_, cfg, ok := handler.resolveProvider(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown provider"})
	}

	if c.Query("hub.verify_token") == cfg.VerifyToken {
		return c.SendString(c.Query("hub.challenge"))
	}
	return c.SendString(wrongTokenResponse)
}

// Receive hands the raw envelope to every adapter bound to the provider.
// Providers require a fast, unconditional 200 to avoid retry storms, so
// adapter errors are logged and swallowed here.
func (handler *Webhook) Receive(c *fiber.Ctx) error {
	kind, _, ok := handler.resolveProvider(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown provider"})
	}

	// fiber reuses the request buffer after the handler returns
	body := append([]byte(nil), c.Body()...)
	logrus.Debugf("[WEBHOOK] %s delivery of %s", kind, humanize.Bytes(uint64(len(body))))

	adapters := handler.Manager.AdaptersByProvider(kind)
	if len(adapters) == 0 {
		logrus.Warnf("[WEBHOOK] No instance bound for provider %s, payload dropped", kind)
		return c.JSON(nil)
	}

	results := make([]any, 0, len(adapters))
	for _, adapter := range adapters {
		res, err := adapter.Connect(c.UserContext(), body)
		if err != nil {
			logrus.Errorf("[WEBHOOK] Adapter %s failed processing %s delivery: %v", adapter.InstanceName(), kind, err)
			continue
		}
		results = append(results, res)
	}

	if len(results) == 1 {
		return c.JSON(results[0])
	}
	return c.JSON(results)
}
