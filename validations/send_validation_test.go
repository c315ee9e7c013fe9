package validations

import (
	"context"
	"testing"

	domainInstance "github.com/AzielCF/az-meta/domains/instance"
	domainSend "github.com/AzielCF/az-meta/domains/send"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/stretchr/testify/assert"
)

func TestValidateSendText(t *testing.T) {
	ctx := context.Background()

	valid := domainSend.TextRequest{InstanceID: "i1", Recipient: "123", Message: "hola"}
	assert.NoError(t, ValidateSendText(ctx, valid))

	missing := domainSend.TextRequest{Recipient: "123", Message: "hola"}
	err := ValidateSendText(ctx, missing)
	assert.Error(t, err)
	// El error debe ser del tipo de validacion para que el middleware mapee 400.
	assert.IsType(t, pkgError.ValidationError(""), err)

	empty := domainSend.TextRequest{InstanceID: "i1", Recipient: "123"}
	assert.Error(t, ValidateSendText(ctx, empty))
}

func TestValidateSendMedia(t *testing.T) {
	ctx := context.Background()

	valid := domainSend.MediaRequest{InstanceID: "i1", Recipient: "123", MediaType: "image", URL: "https://cdn/img.png"}
	assert.NoError(t, ValidateSendMedia(ctx, valid))

	badType := valid
	badType.MediaType = "sticker"
	assert.Error(t, ValidateSendMedia(ctx, badType))

	badURL := valid
	badURL.URL = "no-es-url"
	assert.Error(t, ValidateSendMedia(ctx, badURL))

	for _, mt := range []string{"image", "video", "audio", "document"} {
		req := valid
		req.MediaType = mt
		assert.NoError(t, ValidateSendMedia(ctx, req), "media type %s", mt)
	}
}

func TestValidateCreateInstance(t *testing.T) {
	ctx := context.Background()

	valid := domainInstance.CreateInstanceRequest{
		Name:        "mi-canal",
		Provider:    "facebook",
		SenderID:    "page-1",
		BearerToken: "token",
	}
	assert.NoError(t, ValidateCreateInstance(ctx, valid))

	missingToken := valid
	missingToken.BearerToken = ""
	assert.Error(t, ValidateCreateInstance(ctx, missingToken))
}
