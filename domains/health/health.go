package health

import "context"

type InstanceStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	State    string `json:"state"`
}

type Summary struct {
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Settings  map[string]any   `json:"settings"`
	Instances []InstanceStatus `json:"instances"`
}

type IHealthUsecase interface {
	Summary(ctx context.Context) Summary
}
