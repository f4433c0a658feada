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

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
}

type workspaceController struct {
	workspaceService service.IWorkspaceService
}

func NewWorkspaceController(workspaceService service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{workspaceService: workspaceService}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspaces/v1")
	h.Post("", c.Open)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Close)
	h.Post(":id/messages", c.SendMessage)
	h.Post(":id/cancel", c.Cancel)
	h.Post(":id/reset", c.Reset)
	h.Put(":id/selection", c.SetSelection)
	h.Put(":id/scope", c.SetScope)
}

func sessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("workspace id must be a uuid: %w", apperr.ErrInvalidInput)
	}
	return id, nil
}

func (c *workspaceController) Open(ctx *fiber.Ctx) error {
	var req dto.OpenWorkspaceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.workspaceService.Open(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Workspace opened", res))
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	res, err := c.workspaceService.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Workspace retrieved", res))
}

func (c *workspaceController) Close(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if err := c.workspaceService.Close(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Workspace closed", nil))
}

// SendMessage answers 202 once the turn starts. The reply streams over the websocket.
func (c *workspaceController) SendMessage(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	res, err := c.workspaceService.SendMessage(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Message accepted", res))
}

func (c *workspaceController) Cancel(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	cancelled, err := c.workspaceService.Cancel(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancel requested", dto.CancelResponse{Cancelled: cancelled}))
}

func (c *workspaceController) Reset(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if err := c.workspaceService.Reset(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation cleared", nil))
}

func (c *workspaceController) SetSelection(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var req dto.SelectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	res, err := c.workspaceService.SetSelection(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Selection updated", res))
}

func (c *workspaceController) SetScope(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var req dto.ScopeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.workspaceService.SetScope(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Scope updated", res))
}
