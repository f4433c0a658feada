// FILE: internal/controller/plan_controller.go
// Controller for plan-related endpoints
package controller

import (
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PlanController interface {
	RegisterRoutes(api fiber.Router)
}

type planController struct {
	planService service.PlanService
}

func NewPlanController(planService service.PlanService) PlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(api fiber.Router) {
	api.Get("/plans", c.GetAllPlans)
	api.Get("/plans/:tier", c.GetPlan)
}

// GetAllPlans returns the plan catalog for the pricing page
// @Summary Get all subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {object} []entity.PlanFeatures
// @Router /api/plans [get]
func (c *planController) GetAllPlans(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", c.planService.GetAllPlans()))
}

// GetPlan returns one plan by tier, case-insensitive
// @Summary Get a subscription plan
// @Tags Plans
// @Produce json
// @Param tier path string true "FREE, STANDARD or PREMIUM"
// @Success 200 {object} entity.PlanFeatures
// @Router /api/plans/{tier} [get]
func (c *planController) GetPlan(ctx *fiber.Ctx) error {
	plan, err := c.planService.GetPlan(ctx.Params("tier"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan retrieved", plan))
}
