package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// WorkdayHandler maneja la jornada diaria.
type WorkdayHandler struct {
	uc *workday.UseCase
}

// NewWorkdayHandler construye el handler.
func NewWorkdayHandler(uc *workday.UseCase) *WorkdayHandler {
	return &WorkdayHandler{uc: uc}
}

// Open abre la jornada del día (o de la fecha dada). Solo admin.
// POST /api/workdays/open
func (h *WorkdayHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenWorkdayRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	day, err := h.uc.OpenDay(c.Context(), date, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkdayResponse(day))
}

// Close cierra la jornada abierta. Solo admin.
// POST /api/workdays/close
func (h *WorkdayHandler) Close(c *fiber.Ctx) error {
	day, err := h.uc.CloseDay(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkdayResponse(day))
}

// Current devuelve la jornada abierta, o 204 cuando no hay ninguna.
// GET /api/workdays/current
func (h *WorkdayHandler) Current(c *fiber.Ctx) error {
	day, err := h.uc.Current()
	if err != nil {
		return respondError(c, err)
	}
	if day == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toWorkdayResponse(day))
}

// List lista las jornadas más recientes.
// GET /api/workdays?limit=30
func (h *WorkdayHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	days, err := h.uc.List(limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WorkdayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, toWorkdayResponse(d))
	}
	return c.JSON(out)
}

func toWorkdayResponse(d *entity.Workday) dto.WorkdayResponse {
	return dto.WorkdayResponse{
		ID:       d.ID,
		Date:     d.Date,
		Status:   d.Status,
		OpenedBy: d.OpenedBy,
		OpenedAt: d.OpenedAt,
		ClosedBy: d.ClosedBy,
		ClosedAt: d.ClosedAt,
	}
}
