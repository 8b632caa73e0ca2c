package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorStatus maps a sentinel error (matched with errors.Is) to an HTTP status.
type ErrorStatus struct {
	Err  error
	Code int
}

// ErrorHandlerMiddleware turns errors returned by handlers into the standard error envelope.
func ErrorHandlerMiddleware(mappings ...ErrorStatus) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var verr *ValidationError
		var ferr *fiber.Error
		switch {
		case errors.As(err, &verr):
			return ctx.Status(fiber.StatusBadRequest).JSON(&BaseResponse[map[string]string]{
				Code:    fiber.StatusBadRequest,
				Message: "Validation failed",
				Data:    verr.Fields,
			})
		case errors.As(err, &ferr):
			code = ferr.Code
		default:
			for _, m := range mappings {
				if errors.Is(err, m.Err) {
					code = m.Code
					break
				}
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
