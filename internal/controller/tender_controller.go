package controller

import (
	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITenderController interface {
	RegisterRoutes(r fiber.Router)
}

type tenderController struct {
	tenderService service.ITenderService
}

func NewTenderController(tenderService service.ITenderService) ITenderController {
	return &tenderController{tenderService: tenderService}
}

func (c *tenderController) RegisterRoutes(r fiber.Router) {
	r.Get("/publishers", c.ListPublishers)
	r.Get("/publishers/:id", c.ShowPublisher)
	r.Get("/tenders", c.ListTenders)
	r.Get("/tenders/:id", c.ShowTender)
}

func (c *tenderController) ListPublishers(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Publishers retrieved", c.tenderService.ListPublishers()))
}

func (c *tenderController) ShowPublisher(ctx *fiber.Ctx) error {
	res, err := c.tenderService.GetPublisher(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Publisher retrieved", res))
}

func (c *tenderController) ListTenders(ctx *fiber.Ctx) error {
	var q dto.TenderListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Tenders retrieved", c.tenderService.ListTenders(q)))
}

func (c *tenderController) ShowTender(ctx *fiber.Ctx) error {
	res, err := c.tenderService.GetTender(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tender retrieved", res))
}
