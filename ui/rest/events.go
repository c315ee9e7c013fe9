package rest

import (
	"fmt"

	"github.com/AzielCF/az-meta/gateway"
	"github.com/AzielCF/az-meta/infrastructure/chatstorage"
	pkgError "github.com/AzielCF/az-meta/pkg/error"
	"github.com/AzielCF/az-meta/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Events struct {
	Repository *chatstorage.Repository
	Manager    *gateway.Manager
}

func InitRestEvents(app fiber.Router, repository *chatstorage.Repository, manager *gateway.Manager) Events {
	rest := Events{Repository: repository, Manager: manager}
	app.Get("/instances/:id/events", rest.Recent)
	return rest
}

// Recent returns the newest stored inbound events for one instance.
func (controller *Events) Recent(c *fiber.Ctx) error {
	inst, ok := controller.Manager.GetInstance(c.Params("id"))
	if !ok {
		utils.PanicIfNeeded(pkgError.NotFoundError(fmt.Sprintf("instance %s not found", c.Params("id"))))
	}

	limit := c.QueryInt("limit", 50)
	rows, err := controller.Repository.RecentByInstance(c.UserContext(), inst.Name, limit)
	utils.PanicIfNeeded(err)

	total, err := controller.Repository.CountByInstance(c.UserContext(), inst.Name)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Stored events",
		Results: fiber.Map{
			"total":  total,
			"events": rows,
		},
	})
}
