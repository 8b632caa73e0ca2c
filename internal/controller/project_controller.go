package controller

import (
	"fiberops-assistant-be/internal/pkg/serverutils"
	"fiberops-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Lookup(ctx *fiber.Ctx) error
	SupervisorSummary(ctx *fiber.Ctx) error
}

type projectController struct {
	service service.IProjectService
}

func NewProjectController(service service.IProjectService) IProjectController {
	return &projectController{service: service}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/projects")
	h.Get("", c.GetAll)
	// Static segments before :id
	h.Get("/lookup", c.Lookup)
	h.Get("/summary/supervisors", c.SupervisorSummary)
	h.Get("/:id", c.Show)
}

func (c *projectController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all projects", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show project", res))
}

func (c *projectController) Lookup(ctx *fiber.Ctx) error {
	res, err := c.service.Lookup(ctx.UserContext(), ctx.Query("q"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success lookup project", res))
}

func (c *projectController) SupervisorSummary(ctx *fiber.Ctx) error {
	res, err := c.service.SupervisorSummary(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize by supervisor", res))
}
