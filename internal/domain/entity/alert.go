package entity

import "time"

// AlertType taxonomía cerrada de alertas de inventario. Agregar un tipo nuevo
// implica extender también SeverityForType y el CHECK de la tabla inventory_alerts.
type AlertType string

const (
	AlertStockMinimum       AlertType = "STOCK_MINIMUM"
	AlertStockCritical      AlertType = "STOCK_CRITICAL"
	AlertExpirationUpcoming AlertType = "EXPIRATION_UPCOMING"
	AlertExpirationCritical AlertType = "EXPIRATION_CRITICAL"
)

// AlertSeverity severidad derivada del tipo; nunca se asigna de forma independiente.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// AlertStatus ciclo de vida de la alerta: OPEN -> RESOLVED, sin vuelta atrás.
type AlertStatus string

const (
	StatusOpen     AlertStatus = "OPEN"
	StatusResolved AlertStatus = "RESOLVED"
)

// IsValid verifica que el tipo pertenezca a la taxonomía.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertStockMinimum, AlertStockCritical, AlertExpirationUpcoming, AlertExpirationCritical:
		return true
	}
	return false
}

// IsStock indica si el tipo pertenece a la familia de stock (referencia un componente).
func (t AlertType) IsStock() bool {
	return t == AlertStockMinimum || t == AlertStockCritical
}

// IsExpiration indica si el tipo pertenece a la familia de vencimiento (referencia un lote).
func (t AlertType) IsExpiration() bool {
	return t == AlertExpirationUpcoming || t == AlertExpirationCritical
}

// SeverityForType deriva la severidad a partir del tipo.
func SeverityForType(t AlertType) AlertSeverity {
	switch t {
	case AlertStockCritical, AlertExpirationCritical:
		return SeverityCritical
	default:
		return SeverityWarning
	}
}

// Alert registro de alerta de inventario. Las alertas nunca se eliminan:
// se conservan resueltas como historial de auditoría.
//
// Exactamente uno de ComponentID o LotID es no-nulo según la familia del tipo:
// las alertas de stock referencian un componente, las de vencimiento un lote.
type Alert struct {
	ID          string
	Type        AlertType
	Severity    AlertSeverity
	ComponentID *string
	LotID       *string
	// Message captura los valores numéricos que dispararon la alerta; el libro
	// de stock puede cambiar antes de que alguien la revise.
	Message     string
	Status      AlertStatus
	GeneratedAt time.Time

	// Campos de resolución; nulos mientras la alerta está OPEN.
	ResolvedAt      *time.Time
	ResolvedBy      *string
	ResolutionNotes *string
}

// SubjectID devuelve el identificador del sujeto de la alerta (componente o lote).
func (a *Alert) SubjectID() string {
	if a.ComponentID != nil {
		return *a.ComponentID
	}
	if a.LotID != nil {
		return *a.LotID
	}
	return ""
}

// IsOpen indica si la alerta sigue abierta.
func (a *Alert) IsOpen() bool {
	return a.Status == StatusOpen
}
