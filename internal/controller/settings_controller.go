package controller

import (
	"book-companion-be/internal/dto"
	"book-companion-be/internal/pkg/serverutils"
	"book-companion-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type settingsController struct {
	settingsService service.ISettingsService
}

func NewSettingsController(settingsService service.ISettingsService) ISettingsController {
	return &settingsController{
		settingsService: settingsService,
	}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings/v1")
	h.Get("", c.Get)
	h.Put("", c.Update)
}

func (c *settingsController) Get(ctx *fiber.Ctx) error {
	res, err := c.settingsService.Get(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get settings", res))
}

func (c *settingsController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.settingsService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update settings", res))
}
