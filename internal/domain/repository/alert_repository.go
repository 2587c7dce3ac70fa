package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// AlertFilter filtros opcionales para el listado de alertas. Los campos nil no filtran.
type AlertFilter struct {
	Type        *entity.AlertType
	Severity    *entity.AlertSeverity
	Status      *entity.AlertStatus
	ComponentID *string
	From        *time.Time
	To          *time.Time
}

// TypeCount conteo de alertas abiertas por tipo (widget del dashboard).
type TypeCount struct {
	Type  entity.AlertType
	Count int
}

// AlertRepository define el puerto de persistencia de alertas.
//
// Invariante de unicidad: para un (componente o lote, tipo) dado puede existir
// a lo sumo una alerta OPEN. El adaptador debe rechazar duplicados con
// domain.ErrDuplicate incluso bajo barridos concurrentes (índice único parcial
// sobre status = 'OPEN'); los callers tratan ese error como "ya existe, omitir".
// Las alertas nunca se eliminan; las consultas filtran por status.
type AlertRepository interface {
	// Create inserta una alerta OPEN. Devuelve domain.ErrDuplicate si ya existe
	// una alerta abierta para el mismo (sujeto, tipo).
	Create(ctx context.Context, alert *entity.Alert) error

	// GetByID devuelve la alerta o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Alert, error)

	// GetByIDForUpdate igual que GetByID pero bloquea la fila (SELECT FOR UPDATE).
	// Usar dentro de una transacción para la resolución.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Alert, error)

	// List devuelve la página de alertas y el total sin paginar. Orden por defecto:
	// severidad CRITICAL antes que WARNING y, dentro de la misma severidad,
	// las más recientes primero.
	List(ctx context.Context, filter AlertFilter, limit, offset int) ([]*entity.Alert, int, error)

	// Resolve persiste los campos de resolución de una alerta ya cargada y
	// bloqueada por el caller (status, resolved_at, resolved_by, resolution_notes).
	Resolve(ctx context.Context, alert *entity.Alert) error

	// ResolveOpenForSubject cierra la alerta OPEN del sujeto y tipo dados, si
	// existe. No es error que no exista. Usado por el barrido para escalar
	// STOCK_MINIMUM a STOCK_CRITICAL sin dejar las dos abiertas.
	ResolveOpenForSubject(ctx context.Context, subjectID string, t entity.AlertType, resolvedBy, notes string) error

	// CountOpen devuelve el total de alertas abiertas y cuántas son críticas.
	CountOpen(ctx context.Context) (total, critical int, err error)

	// OpenCountsByType desglose de alertas abiertas por tipo.
	OpenCountsByType(ctx context.Context) ([]TypeCount, error)

	// MostRecentOpen las alertas abiertas más recientes (para el dashboard).
	MostRecentOpen(ctx context.Context, limit int) ([]*entity.Alert, error)
}
