package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/gateway"
	"github.com/example/storefront/internal/services"
)

// ErrorHandler maps domain errors to HTTP statuses in one place.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validationErr   *services.ValidationError
		notFoundErr     *services.NotFoundError
		stateErr        *services.StateError
		stockErr        *services.StockError
		verificationErr *services.VerificationError
		gatewayErr      *gateway.GatewayError
		fiberErr        *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return respondError(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.As(err, &stockErr):
		return respondError(c, fiber.StatusBadRequest, stockErr.Error())
	case errors.As(err, &notFoundErr):
		return respondError(c, fiber.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &stateErr):
		return respondError(c, fiber.StatusConflict, stateErr.Error())
	case errors.As(err, &verificationErr):
		return respondError(c, fiber.StatusUnprocessableEntity, verificationErr.Error())
	case errors.As(err, &gatewayErr):
		log.Printf("gateway failure: %v", gatewayErr)
		return respondError(c, fiber.StatusBadGateway, "payment gateway error, please try again later")
	case errors.As(err, &fiberErr):
		return respondError(c, fiberErr.Code, fiberErr.Message)
	default:
		log.Printf("unhandled error: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
