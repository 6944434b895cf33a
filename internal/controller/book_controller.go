package controller

import (
	"strings"

	"book-companion-be/internal/dto"
	"book-companion-be/internal/pkg/serverutils"
	"book-companion-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type bookController struct {
	bookService service.IBookService
}

func NewBookController(bookService service.IBookService) IBookController {
	return &bookController{
		bookService: bookService,
	}
}

func (c *bookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/book/v1")
	h.Post("", c.Ingest)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/search", c.Search)
	h.Delete(":id", c.Delete)
}

func (c *bookController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Book ingestion started", res))
}

func (c *bookController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	res, err := c.bookService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get book", res))
}

func (c *bookController) List(ctx *fiber.Ctx) error {
	res, err := c.bookService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get books", res))
}

func (c *bookController) Search(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	query := strings.TrimSpace(ctx.Query("q"))
	if len(query) < 2 {
		return fiber.NewError(fiber.StatusBadRequest, "search query must be at least 2 characters")
	}
	if len(query) > 120 {
		return fiber.NewError(fiber.StatusBadRequest, "search query too long")
	}

	limit := ctx.QueryInt("limit", 40)

	res, err := c.bookService.Search(ctx.Context(), id, query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search book", res))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	if err := c.bookService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete book", nil))
}
