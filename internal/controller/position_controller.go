package controller

import (
	"book-companion-be/internal/dto"
	"book-companion-be/internal/pkg/serverutils"
	"book-companion-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPositionController interface {
	RegisterRoutes(r fiber.Router)
	Update(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
}

type positionController struct {
	positionService service.IPositionService
}

func NewPositionController(positionService service.IPositionService) IPositionController {
	return &positionController{
		positionService: positionService,
	}
}

func (c *positionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/position/v1")
	h.Put(":bookId", c.Update)
	h.Get(":bookId", c.Get)
}

func (c *positionController) Update(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	var req dto.UpdatePositionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.positionService.Update(ctx.Context(), bookId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update position", res))
}

func (c *positionController) Get(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	res, err := c.positionService.Get(ctx.Context(), bookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get position", res))
}
