package usecase

import (
	"context"
	"fmt"

	domainChannel "github.com/AzielCF/az-meta/domains/channel"
	domainInstance "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/gateway"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/AzielCF/az-meta/validations"
	"github.com/google/uuid"
)

type serviceInstance struct {
	manager *gateway.Manager
}

func NewInstanceService(manager *gateway.Manager) domainInstance.IInstanceUsecase {
	return &serviceInstance{manager: manager}
}

func (service serviceInstance) Create(ctx context.Context, request domainInstance.CreateInstanceRequest) (domainInstance.Instance, error) {
	if err := validations.ValidateCreateInstance(ctx, request); err != nil {
		return domainInstance.Instance{}, err
	}

	kind, ok := domainChannel.ParseProviderKind(request.Provider)
	if !ok {
		return domainInstance.Instance{}, pkgError.ValidationError(fmt.Sprintf("unknown provider %q", request.Provider))
	}

	inst := domainInstance.Instance{
		ID:          uuid.NewString(),
		Name:        request.Name,
		Provider:    kind,
		SenderID:    request.SenderID,
		BearerToken: request.BearerToken,
	}

	adapter, err := service.manager.BindInstance(ctx, inst)
	if err != nil {
		return domainInstance.Instance{}, err
	}

	inst.State = string(adapter.Status())
	return inst, nil
}

func (service serviceInstance) List(ctx context.Context) ([]domainInstance.Instance, error) {
	return service.manager.ListInstances(), nil
}

func (service serviceInstance) GetByID(ctx context.Context, id string) (domainInstance.Instance, error) {
	inst, ok := service.manager.GetInstance(id)
	if !ok {
		return domainInstance.Instance{}, pkgError.NotFoundError(fmt.Sprintf("instance %s not found", id))
	}
	if adapter, ok := service.manager.GetAdapter(id); ok {
		inst.State = string(adapter.Status())
	}
	return inst, nil
}

func (service serviceInstance) Delete(ctx context.Context, id string) error {
	if err := service.manager.RemoveInstance(id); err != nil {
		return pkgError.NotFoundError(err.Error())
	}
	return nil
}
