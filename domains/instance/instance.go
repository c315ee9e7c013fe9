package instance

import (
	"context"

	"github.com/AzielCF/az-meta/domains/channel"
)

// Instance is one configured channel account, bound 1:1 to an adapter for
// the lifetime of the gateway process.
type Instance struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Provider    channel.ProviderKind `json:"provider"`
	SenderID    string               `json:"sender_id"`
	BearerToken string               `json:"-"`
	State       string               `json:"state,omitempty"`
}

type CreateInstanceRequest struct {
	Name        string `json:"name" form:"name"`
	Provider    string `json:"provider" form:"provider"`
	SenderID    string `json:"sender_id" form:"sender_id"`
	BearerToken string `json:"bearer_token" form:"bearer_token"`
}

type IInstanceUsecase interface {
	Create(ctx context.Context, request CreateInstanceRequest) (Instance, error)
	List(ctx context.Context) ([]Instance, error)
	GetByID(ctx context.Context, id string) (Instance, error)
	Delete(ctx context.Context, id string) error
}
