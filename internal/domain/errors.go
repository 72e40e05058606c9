package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para agregar
// contexto (id de entidad, monto solicitado, monto disponible).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Jornada diaria: toda mutación financiera exige un día abierto.
	ErrNoOpenDay = errors.New("no hay jornada abierta")

	// Inventario / asignación FIFO.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Tesorería (caja y banco).
	ErrInsufficientBalance = errors.New("saldo insuficiente en la cuenta")
	ErrAccountNotFound     = errors.New("no hay cuenta activa de ese tipo")

	// Transiciones de estado inválidas o repetidas.
	ErrAlreadyCancelled  = errors.New("el documento ya está anulado")
	ErrAlreadySettled    = errors.New("el embarque ya está liquidado")
	ErrAlreadyClosed     = errors.New("el recurso ya está cerrado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")

	// Facturas y cobros nunca se borran: solo se anulan.
	ErrDeletionForbidden = errors.New("eliminación prohibida: use anulación")

	// Liquidación de embarques.
	ErrSuccessorNotOpen     = errors.New("el embarque sucesor no está abierto")
	ErrCarryoverAlreadySold = errors.New("el traslado ya fue vendido en el embarque destino")

	// Distribución manual de cobros.
	ErrAllocationExceedsBalance = errors.New("la asignación excede el saldo de la factura")
)
