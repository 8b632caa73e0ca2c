package controller

import (
	"fiberops-assistant-be/internal/pkg/serverutils"
	"fiberops-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDataController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
}

type dataController struct {
	service service.IProjectService
	guard   fiber.Handler
}

// NewDataController takes the middleware that protects the manual refresh endpoint.
func NewDataController(service service.IProjectService, guard fiber.Handler) IDataController {
	return &dataController{service: service, guard: guard}
}

func (c *dataController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/data")
	h.Get("/status", c.Status)
	h.Post("/refresh", c.guard, c.Refresh)
}

func (c *dataController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get data status", c.service.Status(ctx.UserContext())))
}

func (c *dataController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.service.Refresh(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh project data", res))
}
