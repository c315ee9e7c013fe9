package usecase

import (
	"context"
	"time"

	"github.com/AzielCF/az-meta/core/config"
	domainHealth "github.com/AzielCF/az-meta/domains/health"
	"github.com/AzielCF/az-meta/gateway"
	"github.com/dustin/go-humanize"
)

type serviceHealth struct {
	manager   *gateway.Manager
	startedAt time.Time
}

func NewHealthService(manager *gateway.Manager) domainHealth.IHealthUsecase {
	return &serviceHealth{manager: manager, startedAt: time.Now()}
}

func (service serviceHealth) Summary(ctx context.Context) domainHealth.Summary {
	instances := service.manager.ListInstances()
	statuses := make([]domainHealth.InstanceStatus, 0, len(instances))
	for _, inst := range instances {
		statuses = append(statuses, domainHealth.InstanceStatus{
			ID:       inst.ID,
			Name:     inst.Name,
			Provider: string(inst.Provider),
			State:    inst.State,
		})
	}

	version := ""
	if config.Global != nil {
		version = config.Global.App.Version
	}

	return domainHealth.Summary{
		Version:   version,
		Uptime:    humanize.Time(service.startedAt),
		Settings:  config.GetAllSettings(),
		Instances: statuses,
	}
}
