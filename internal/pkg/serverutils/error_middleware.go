package serverutils

import (
	"errors"
	"log"

	"book-companion-be/internal/service"
	"book-companion-be/pkg/rag"
	"book-companion-be/pkg/readhistory"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors to HTTP statuses. The
// streaming ask endpoint handles its own errors in-band and never
// reaches this mapping.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, service.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrModelNotAllowed):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrBookNotReady):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, rag.ErrNoContentReadYet):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, readhistory.ErrNavigationUnavailable):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, rag.ErrRetrievalUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, rag.ErrAnswerGenerationFailed):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
