package rest

import (
	domainInstance "github.com/AzielCF/az-meta/domains/instance"
	"github.com/AzielCF/az-meta/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Instance struct {
	Service domainInstance.IInstanceUsecase
}

func InitRestInstance(app fiber.Router, service domainInstance.IInstanceUsecase) Instance {
	rest := Instance{Service: service}
	app.Post("/instances", rest.Create)
	app.Get("/instances", rest.List)
	app.Get("/instances/:id", rest.Get)
	app.Delete("/instances/:id", rest.Delete)
	return rest
}

func (controller *Instance) Create(c *fiber.Ctx) error {
	var request domainInstance.CreateInstanceRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	created, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  201,
		Code:    "CREATED",
		Message: "Instance bound",
		Results: created,
	})
}

func (controller *Instance) List(c *fiber.Ctx) error {
	instances, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance list",
		Results: instances,
	})
}

func (controller *Instance) Get(c *fiber.Ctx) error {
	found, err := controller.Service.GetByID(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance detail",
		Results: found,
	})
}

func (controller *Instance) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance removed",
	})
}
