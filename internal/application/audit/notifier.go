package audit

import "github.com/oabdelghanydev-eng/AzafcoSys-sub001/pkg/logger"

// Notifier recibe, después del commit, la notificación de cada
// creación/actualización/anulación: (entidad, id, acción, actor).
// El núcleo nunca bloquea esperando su disponibilidad.
type Notifier interface {
	Notify(entityType, entityID, action, actor string)
}

// LogNotifier implementación sobre zerolog: deja el rastro como evento
// estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador sobre el logger de la app.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify registra el evento de auditoría.
func (n *LogNotifier) Notify(entityType, entityID, action, actor string) {
	n.log.Info().
		Str("entity", entityType).
		Str("entity_id", entityID).
		Str("action", action).
		Str("actor", actor).
		Msg("audit")
}

// NopNotifier descarta las notificaciones (tests).
type NopNotifier struct{}

// Notify no hace nada.
func (NopNotifier) Notify(string, string, string, string) {}
