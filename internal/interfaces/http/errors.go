package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
)

// mapping de error de dominio a status + código HTTP. Los casos de uso
// envuelven los sentinelas con %w, así que se compara con errors.Is.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrAllocationExceedsBalance, fiber.StatusBadRequest, "ALLOCATION_EXCEEDS_BALANCE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrDeletionForbidden, fiber.StatusForbidden, "DELETION_FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrAccountNotFound, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrNoOpenDay, fiber.StatusConflict, "NO_OPEN_DAY"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE"},
	{domain.ErrAlreadyCancelled, fiber.StatusConflict, "ALREADY_CANCELLED"},
	{domain.ErrAlreadySettled, fiber.StatusConflict, "ALREADY_SETTLED"},
	{domain.ErrAlreadyClosed, fiber.StatusConflict, "ALREADY_CLOSED"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrSuccessorNotOpen, fiber.StatusConflict, "SUCCESSOR_NOT_OPEN"},
	{domain.ErrCarryoverAlreadySold, fiber.StatusConflict, "CARRYOVER_ALREADY_SOLD"},
}

// respondError traduce un error de dominio a la respuesta HTTP.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
