package controller

import (
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFollowController interface {
	RegisterRoutes(r fiber.Router)
}

type followController struct {
	followService service.IFollowService
}

func NewFollowController(followService service.IFollowService) IFollowController {
	return &followController{followService: followService}
}

func (c *followController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/follows/v1")
	h.Get("", c.Status)
	h.Post(":publisherId/toggle", c.Toggle)
}

func (c *followController) Status(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Followed publishers retrieved", c.followService.Status(ctx.UserContext(), browserId)))
}

// Toggle follows or unfollows. At the plan limit a follow is rejected with 409.
func (c *followController) Toggle(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.followService.Toggle(ctx.UserContext(), browserId, ctx.Params("publisherId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Follow updated", res))
}
