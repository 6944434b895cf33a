package controller

import (
	"book-companion-be/internal/dto"
	"book-companion-be/internal/pkg/serverutils"
	"book-companion-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookmarkController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type bookmarkController struct {
	bookmarkService service.IBookmarkService
}

func NewBookmarkController(bookmarkService service.IBookmarkService) IBookmarkController {
	return &bookmarkController{
		bookmarkService: bookmarkService,
	}
}

func (c *bookmarkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bookmark/v1")
	h.Post(":bookId", c.Create)
	h.Get(":bookId", c.List)
	h.Delete(":bookId/:id", c.Delete)
}

func (c *bookmarkController) Create(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	var req dto.CreateBookmarkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookmarkService.Create(ctx.Context(), bookId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create bookmark", res))
}

func (c *bookmarkController) List(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	res, err := c.bookmarkService.List(ctx.Context(), bookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get bookmarks", res))
}

func (c *bookmarkController) Delete(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid bookmark id")
	}

	if err := c.bookmarkService.Delete(ctx.Context(), bookId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete bookmark", nil))
}
