package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

// respondError maps service errors to HTTP statuses. Unknown errors become
// a 500 through the app's error handler, which hides the details.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	var rl *services.RateLimitedError

	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrProfanityRejected):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &rl):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(rl.RetryAfterSeconds))
		return fail(c, fiber.StatusTooManyRequests, rl.Error())
	case errors.Is(err, services.ErrPostingWindowClosed):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConfessionNotFound), errors.Is(err, services.ErrReportNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidAdminToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAdminDisabled), errors.Is(err, services.ErrStoreUnavailable):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	default:
		return err
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// bindBody decodes and validates a JSON request body. The returned error is
// a *services.ValidationError suitable for respondError.
func bindBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &services.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	if fe := dto.Validate(req); fe != nil {
		return &services.ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return nil
}
