package rest

import (
	domainHealth "github.com/AzielCF/az-meta/domains/health"
	"github.com/AzielCF/az-meta/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Health struct {
	Service domainHealth.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service domainHealth.IHealthUsecase) Health {
	rest := Health{Service: service}
	app.Get("/health", rest.Summary)
	return rest
}

func (controller *Health) Summary(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Gateway status",
		Results: controller.Service.Summary(c.UserContext()),
	})
}
