package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// ComponentLedger acceso de solo lectura al libro de stock de componentes.
// Las escrituras de stock pertenecen al módulo de movimientos de inventario,
// externo a este motor.
type ComponentLedger interface {
	// ListStockReadings devuelve todos los componentes con su cantidad actual,
	// umbral mínimo y los tipos de alerta que tienen OPEN, en una sola consulta.
	ListStockReadings(ctx context.Context) ([]*entity.ComponentStock, error)
}

// LotLedger acceso de solo lectura al libro de lotes.
type LotLedger interface {
	// ListExpiringLots devuelve los lotes AVAILABLE con cantidad > 0 y fecha de
	// vencimiento dentro de la ventana hacia adelante indicada, con sus tipos de
	// alerta OPEN. La ventana acota el escaneo: solo los vencimientos cercanos
	// son accionables.
	ListExpiringLots(ctx context.Context, within time.Duration) ([]*entity.Lot, error)
}
