package controller

import (
	"fmt"

	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"
	"bidwizer-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRegistrationController interface {
	RegisterRoutes(r fiber.Router)
}

type registrationController struct {
	registrationService service.IRegistrationService
}

func NewRegistrationController(registrationService service.IRegistrationService) IRegistrationController {
	return &registrationController{registrationService: registrationService}
}

func (c *registrationController) RegisterRoutes(r fiber.Router) {
	b := r.Group("/registration/bidder/v1")
	b.Get("", c.BidderStatus)
	b.Post("restart", c.RestartBidder)
	b.Put("plan", c.SelectBidderPlan)
	b.Post("steps/:step", c.SubmitBidderStep)
	b.Put("team/draft", c.SaveMemberDraft)
	b.Post("team", c.AddTeamMember)
	b.Delete("team/:memberId", c.RemoveTeamMember)
	b.Post("team/skip", c.SkipTeamSetup)

	p := r.Group("/registration/publisher/v1")
	p.Get("", c.PublisherStatus)
	p.Put("plan", c.SelectPublisherPlan)
	p.Post("payment", c.SubmitPayment)
	p.Post("checkout/complete", c.CompleteCheckout)

	// Stand-in for the external checkout page the sandbox gateway redirects to.
	r.Get("/sandbox/checkout", c.SandboxCheckout)
}

// BidderStatus resumes the wizard. ?plan= is honoured like a pricing-page link.
func (c *registrationController) BidderStatus(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.registrationService.BidderStatus(ctx.UserContext(), browserId, ctx.Query("plan"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Registration retrieved", res))
}

func (c *registrationController) RestartBidder(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.registrationService.RestartBidder(ctx.UserContext(), browserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Registration restarted", res))
}

func (c *registrationController) SelectBidderPlan(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	var req dto.SelectPlanRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.registrationService.SelectBidderPlan(ctx.UserContext(), browserId, req.Plan)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan selected", res))
}

func (c *registrationController) SubmitBidderStep(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	step, err := ctx.ParamsInt("step")
	if err != nil {
		return fmt.Errorf("step must be a number: %w", apperr.ErrInvalidInput)
	}
	var req dto.SubmitStepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	if req.Fields == nil {
		req.Fields = map[string]string{}
	}
	res, err := c.registrationService.SubmitBidderStep(ctx.UserContext(), browserId, step, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Step saved", res))
}

func (c *registrationController) SaveMemberDraft(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	var req dto.AddTeamMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	res, err := c.registrationService.SaveMemberDraft(ctx.UserContext(), browserId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Draft saved", res))
}

func (c *registrationController) AddTeamMember(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	var req dto.AddTeamMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	res, err := c.registrationService.AddTeamMember(ctx.UserContext(), browserId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Team member added", res))
}

func (c *registrationController) RemoveTeamMember(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	memberId, err := uuid.Parse(ctx.Params("memberId"))
	if err != nil {
		return fmt.Errorf("member id must be a uuid: %w", apperr.ErrInvalidInput)
	}
	res, err := c.registrationService.RemoveTeamMember(ctx.UserContext(), browserId, memberId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Team member removed", res))
}

func (c *registrationController) SkipTeamSetup(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.registrationService.SkipTeamSetup(ctx.UserContext(), browserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Team setup skipped", res))
}

func (c *registrationController) PublisherStatus(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.registrationService.PublisherStatus(ctx.UserContext(), browserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Registration retrieved", res))
}

func (c *registrationController) SelectPublisherPlan(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	var req dto.SelectPlanRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.registrationService.SelectPublisherPlan(ctx.UserContext(), browserId, req.Plan)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan selected", res))
}

func (c *registrationController) SubmitPayment(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	var req dto.PublisherPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	res, err := c.registrationService.SubmitPayment(ctx.UserContext(), browserId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Redirecting to checkout", res))
}

func (c *registrationController) CompleteCheckout(ctx *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CheckoutCompleteRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.registrationService.CompleteCheckout(ctx.UserContext(), browserId, req.OrderId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Registration complete", res))
}

// SandboxCheckout echoes the order so a developer can finish the flow by hand.
func (c *registrationController) SandboxCheckout(ctx *fiber.Ctx) error {
	orderId := ctx.Query("order_id")
	if orderId == "" {
		return fmt.Errorf("order_id is required: %w", apperr.ErrInvalidInput)
	}
	return ctx.JSON(serverutils.SuccessResponse("Sandbox checkout", dto.SandboxCheckoutResponse{
		OrderId:   orderId,
		Plan:      ctx.Query("plan"),
		Amount:    ctx.Query("amount"),
		Email:     ctx.Query("email"),
		ReturnURL: "/api/registration/publisher/v1/checkout/complete",
	}))
}
