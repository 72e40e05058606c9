package dto

import "time"

// OpenWorkdayRequest body para POST /api/workdays/open.
// Date opcional: por defecto la fecha de hoy.
type OpenWorkdayRequest struct {
	Date *time.Time `json:"date,omitempty"`
}

// WorkdayResponse jornada en respuestas.
type WorkdayResponse struct {
	ID       string     `json:"id"`
	Date     time.Time  `json:"date"`
	Status   string     `json:"status"`
	OpenedBy string     `json:"opened_by"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedBy string     `json:"closed_by,omitempty"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}
