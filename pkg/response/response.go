package response

import "github.com/gofiber/fiber/v2"

// The wire contract uses plain-text bodies for failures and raw JSON for
// job views, so helpers here mirror that instead of a JSON error envelope.

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).SendString(message)
}

func NotFound(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNotFound)
}

// ServiceError reports a queue-service transport failure with its
// diagnostic; the client may retry.
func ServiceError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
}

func RateLimited(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).SendString("Rate limit exceeded")
}
