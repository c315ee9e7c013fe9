package usecase

import (
	"context"
	"fmt"

	domainMessage "github.com/AzielCF/az-meta/domains/message"
	domainSend "github.com/AzielCF/az-meta/domains/send"
	"github.com/AzielCF/az-meta/gateway"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/AzielCF/az-meta/validations"
	"github.com/sirupsen/logrus"
)

type serviceSend struct {
	manager *gateway.Manager
}

func NewSendService(manager *gateway.Manager) domainSend.ISendUsecase {
	return &serviceSend{manager: manager}
}

func (service serviceSend) SendText(ctx context.Context, request domainSend.TextRequest) (domainMessage.SendResult, error) {
	if err := validations.ValidateSendText(ctx, request); err != nil {
		return domainMessage.SendResult{}, err
	}

	adapter, ok := service.manager.GetAdapter(request.InstanceID)
	if !ok {
		return domainMessage.SendResult{}, pkgError.NotFoundError(fmt.Sprintf("instance %s not found", request.InstanceID))
	}

	result := adapter.Send(ctx, domainMessage.NewTextRequest(request.Recipient, request.Message))
	logSendResult(adapter.InstanceName(), "text", result)
	return result, nil
}

func (service serviceSend) SendMedia(ctx context.Context, request domainSend.MediaRequest) (domainMessage.SendResult, error) {
	if err := validations.ValidateSendMedia(ctx, request); err != nil {
		return domainMessage.SendResult{}, err
	}

	adapter, ok := service.manager.GetAdapter(request.InstanceID)
	if !ok {
		return domainMessage.SendResult{}, pkgError.NotFoundError(fmt.Sprintf("instance %s not found", request.InstanceID))
	}

	result := adapter.Send(ctx, domainMessage.NewMediaRequest(
		request.Recipient,
		domainMessage.MediaType(request.MediaType),
		request.URL,
	))
	logSendResult(adapter.InstanceName(), "media", result)
	return result, nil
}

func logSendResult(instanceName, kind string, result domainMessage.SendResult) {
	if result.Success {
		logrus.WithFields(logrus.Fields{
			"instance": instanceName,
			"kind":     kind,
		}).Info("[SEND] Message dispatched")
		return
	}
	logrus.WithFields(logrus.Fields{
		"instance":    instanceName,
		"kind":        kind,
		"http_status": result.Failure.HTTPStatus,
		"code":        result.Failure.Code,
	}).Warnf("[SEND] Provider rejected message: %s", result.Failure.Message)
}
