package entity

import "time"

// Estados de la jornada diaria. Solo puede haber una jornada abierta a
// la vez en todo el sistema; las operaciones financieras la consultan
// antes de aceptar cualquier mutación.
const (
	WorkdayStatusOpen   = "open"
	WorkdayStatusClosed = "closed"
)

// Workday representa una jornada operativa. La fecha de todo documento
// nuevo sale de la jornada abierta, no del caller.
type Workday struct {
	ID       string
	Date     time.Time
	Status   string
	OpenedBy string
	OpenedAt time.Time
	ClosedBy string
	ClosedAt *time.Time
}
