package validations

import (
	"context"

	domainSend "github.com/AzielCF/az-meta/domains/send"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func ValidateSendText(ctx context.Context, request domainSend.TextRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.InstanceID, validation.Required),
		validation.Field(&request.Recipient, validation.Required),
		validation.Field(&request.Message, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateSendMedia(ctx context.Context, request domainSend.MediaRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.InstanceID, validation.Required),
		validation.Field(&request.Recipient, validation.Required),
		validation.Field(&request.MediaType, validation.Required,
			validation.In("image", "video", "audio", "document")),
		validation.Field(&request.URL, validation.Required, is.URL),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
