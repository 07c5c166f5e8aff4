package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

// errorStatus tabla única kind de dominio → (status HTTP, code).
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusBadRequest, "CONFLICT"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// respondError escribe el error en formato {code, error, message, details}.
// Los errores internos se registran con op e id y el cliente recibe un mensaje genérico.
func respondError(c *fiber.Ctx, log zerolog.Logger, op, id string, err error) error {
	status, code := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("id", id).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:    code,
			Error:   "Internal Server Error",
			Message: "une erreur interne est survenue",
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Error:   errorTitle(status),
		Message: err.Error(),
		Details: domain.DetailsOf(err),
	})
}

func errorTitle(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "Bad Request"
	case fiber.StatusNotFound:
		return "Not Found"
	case fiber.StatusConflict:
		return "Conflict"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	default:
		return "Error"
	}
}

// ErrorHandler manejador global de fiber: rutas inexistentes, pánicos recuperados y errores no tratados.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{
				Code:    "HTTP_ERROR",
				Error:   errorTitle(fe.Code),
				Message: fe.Message,
			})
		}
		return respondError(c, log, c.Method()+" "+c.Path(), c.Params("id"), err)
	}
}
