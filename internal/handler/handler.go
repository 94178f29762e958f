package handler

import (
	"errors"

	"agrimart-api/internal/repository"
	"agrimart-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusForError maps service errors onto the HTTP taxonomy: 400 validation,
// 401 authentication, 403 authorization, 404 missing entity, 409 lost race.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrBadAdminSecret):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotOrderOwner),
		errors.Is(err, service.ErrNotOrderSeller),
		errors.Is(err, service.ErrNotProductOwner),
		errors.Is(err, service.ErrPurchaseForbidden),
		errors.Is(err, service.ErrSellerUnverified):
		return fiber.StatusForbidden
	case errors.Is(err, repository.ErrVersionConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}

func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}
