package rest

import (
	domainSend "github.com/AzielCF/az-meta/domains/send"
	"github.com/AzielCF/az-meta/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Send struct {
	Service domainSend.ISendUsecase
}

func InitRestSend(app fiber.Router, service domainSend.ISendUsecase) Send {
	rest := Send{Service: service}
	app.Post("/send/message", rest.SendText)
	app.Post("/send/media", rest.SendMedia)
	return rest
}

func (controller *Send) SendText(c *fiber.Ctx) error {
	var request domainSend.TextRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	response, err := controller.Service.SendText(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message dispatched",
		Results: response,
	})
}

func (controller *Send) SendMedia(c *fiber.Ctx) error {
	var request domainSend.MediaRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	response, err := controller.Service.SendMedia(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Media dispatched",
		Results: response,
	})
}
