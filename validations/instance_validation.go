package validations

import (
	"context"

	domainInstance "github.com/AzielCF/az-meta/domains/instance"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateCreateInstance(ctx context.Context, request domainInstance.CreateInstanceRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&request.Provider, validation.Required),
		validation.Field(&request.SenderID, validation.Required),
		validation.Field(&request.BearerToken, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
