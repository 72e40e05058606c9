package entity

import "time"

// Product representa un artículo del catálogo (mango, uva, etc.).
// El stock nunca se guarda aquí: se deriva de los lotes de embarque.
type Product struct {
	ID        string
	Name      string
	Unit      string // unidad de peso para reportes (kg por defecto)
	CreatedAt time.Time
	UpdatedAt time.Time
}
