package send

import (
	"context"

	"github.com/AzielCF/az-meta/domains/message"
)

type TextRequest struct {
	InstanceID string `json:"instance_id" form:"instance_id"`
	Recipient  string `json:"recipient" form:"recipient"`
	Message    string `json:"message" form:"message"`
}

type MediaRequest struct {
	InstanceID string `json:"instance_id" form:"instance_id"`
	Recipient  string `json:"recipient" form:"recipient"`
	MediaType  string `json:"media_type" form:"media_type"`
	URL        string `json:"url" form:"url"`
}

// ISendUsecase translates REST send requests into canonical outbound
// requests against the instance's adapter. The returned SendResult carries
// provider failures as values; error is reserved for unknown instances and
// invalid requests.
type ISendUsecase interface {
	SendText(ctx context.Context, request TextRequest) (message.SendResult, error)
	SendMedia(ctx context.Context, request MediaRequest) (message.SendResult, error)
}
