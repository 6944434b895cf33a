package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"

	"book-companion-be/internal/dto"
	"book-companion-be/internal/pkg/serverutils"
	"book-companion-be/internal/service"
	"book-companion-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IQAController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Back(ctx *fiber.Ctx) error
	Forward(ctx *fiber.Ctx) error
	Jump(ctx *fiber.Ctx) error
	Return(ctx *fiber.Ctx) error
	Conversations(ctx *fiber.Ctx) error
}

type qaController struct {
	qaService service.IQAService
}

func NewQAController(qaService service.IQAService) IQAController {
	return &qaController{
		qaService: qaService,
	}
}

func (c *qaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/companion/v1")
	h.Post(":bookId/ask", c.Ask)
	h.Get(":bookId/history", c.History)
	h.Get(":bookId/conversations", c.Conversations)
	h.Post(":bookId/history/back", c.Back)
	h.Post(":bookId/history/forward", c.Forward)
	h.Post(":bookId/jump", c.Jump)
	h.Post(":bookId/return", c.Return)
}

// Ask streams the answer as NDJSON: delta frames while tokens arrive,
// then one done or error frame. Failures after the stream opens travel
// in-band because the status line is already written.
func (c *qaController) Ask(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.BookId = bookId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/x-ndjson")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		encoder := json.NewEncoder(w)
		emit := func(event dto.AskEvent) error {
			if err := encoder.Encode(event); err != nil {
				return err
			}
			return w.Flush()
		}

		// The fiber context dies with the handler; the stream outlives
		// it. Disconnects surface as flush errors instead.
		if err := c.qaService.Ask(context.Background(), &req, emit); err != nil {
			_ = emit(dto.AskEvent{Type: dto.AskEventError, Message: askErrorMessage(err)})
		}
	}))

	return nil
}

func askErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "book not found"
	case errors.Is(err, service.ErrBookNotReady):
		return "book is still being processed"
	case errors.Is(err, rag.ErrRetrievalUnavailable):
		return "retrieval is temporarily unavailable"
	case errors.Is(err, rag.ErrAnswerGenerationFailed):
		return "answer generation failed"
	default:
		return "something went wrong"
	}
}

func (c *qaController) History(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}
	sessionId, err := uuid.Parse(ctx.Query("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.qaService.History(ctx.Context(), bookId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *qaController) Back(ctx *fiber.Ctx) error {
	return c.navigate(ctx, c.qaService.Back)
}

func (c *qaController) Forward(ctx *fiber.Ctx) error {
	return c.navigate(ctx, c.qaService.Forward)
}

func (c *qaController) navigate(ctx *fiber.Ctx, move func(context.Context, uuid.UUID, uuid.UUID) (*dto.NavigateResponse, error)) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	var req dto.SessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := move(ctx.Context(), bookId, req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success navigate history", res))
}

func (c *qaController) Jump(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	var req dto.JumpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.BookId = bookId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.qaService.Jump(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success jump to citation", res))
}

func (c *qaController) Conversations(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}
	sessionId, err := uuid.Parse(ctx.Query("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.qaService.Conversations(ctx.Context(), bookId, sessionId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *qaController) Return(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid book id")
	}

	var req dto.SessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.qaService.Return(ctx.Context(), bookId, req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success return to saved position", res))
}
