package errors

import (
	"errors"

	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps service failures onto the HTTP surface. Handlers return
// raw service errors; nothing else in the API layer builds error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var insufficient service.InsufficientFundsError
		if errors.As(err, &insufficient) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"code":      constants.ErrCodeInsufficientFunds,
				"message":   constants.GetErrorMessage(constants.ErrCodeInsufficientFunds),
				"required":  insufficient.Required.StringFixed(2),
				"available": insufficient.Available.StringFixed(2),
			})
		}

		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    constants.ErrCodeInternalError,
				"message": fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    constants.ErrCodeInternalError,
			"message": constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	return c.Status(constants.GetHTTPStatus(err.Code)).JSON(fiber.Map{
		"code":    err.Code,
		"message": constants.GetErrorMessage(err.Code),
	})
}
