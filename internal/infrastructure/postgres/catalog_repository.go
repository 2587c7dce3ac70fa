package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.ComponentLedger = (*ComponentLedgerRepo)(nil)
var _ repository.LotLedger = (*LotLedgerRepo)(nil)

// ComponentLedgerRepo lectura del libro de stock de componentes (solo lectura:
// las escrituras pertenecen al módulo de movimientos de inventario).
type ComponentLedgerRepo struct {
	q Querier
}

// NewComponentLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComponentLedgerRepository(q Querier) *ComponentLedgerRepo {
	return &ComponentLedgerRepo{q: q}
}

// ListStockReadings devuelve todos los componentes con su cantidad, umbral
// mínimo y los tipos de alerta OPEN, agregados en una sola consulta para
// evitar una verificación de existencia por candidato.
func (r *ComponentLedgerRepo) ListStockReadings(ctx context.Context) ([]*entity.ComponentStock, error) {
	const query = `
	SELECT c.id, c.name, c.quantity_on_hand, c.minimum_quantity,
	       COALESCE(array_agg(a.type) FILTER (WHERE a.id IS NOT NULL), '{}') AS open_types
	FROM components c
	LEFT JOIN inventory_alerts a
	       ON a.component_id = c.id AND a.status = 'OPEN'
	GROUP BY c.id, c.name, c.quantity_on_hand, c.minimum_quantity
	ORDER BY c.name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock readings: %w", err)
	}
	defer rows.Close()

	var readings []*entity.ComponentStock
	for rows.Next() {
		var c entity.ComponentStock
		var openTypes []string
		if err := rows.Scan(&c.ID, &c.Name, &c.QuantityOnHand, &c.MinimumQuantity, &openTypes); err != nil {
			return nil, fmt.Errorf("scan stock reading: %w", err)
		}
		c.OpenAlertTypes = toAlertTypes(openTypes)
		readings = append(readings, &c)
	}
	return readings, rows.Err()
}

// LotLedgerRepo lectura del libro de lotes (solo lectura).
type LotLedgerRepo struct {
	q Querier
}

// NewLotLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotLedgerRepository(q Querier) *LotLedgerRepo {
	return &LotLedgerRepo{q: q}
}

// ListExpiringLots devuelve los lotes AVAILABLE con cantidad > 0 y vencimiento
// dentro de la ventana, con sus tipos de alerta OPEN. La ventana acota el
// escaneo a los vencimientos accionables en lugar de recorrer todo el histórico.
func (r *LotLedgerRepo) ListExpiringLots(ctx context.Context, within time.Duration) ([]*entity.Lot, error) {
	const query = `
	SELECT l.id, l.component_id, c.name, l.quantity_remaining, l.expiration_date, l.state,
	       COALESCE(array_agg(a.type) FILTER (WHERE a.id IS NOT NULL), '{}') AS open_types
	FROM component_lots l
	JOIN components c ON c.id = l.component_id
	LEFT JOIN inventory_alerts a
	       ON a.lot_id = l.id AND a.status = 'OPEN'
	WHERE l.state = 'AVAILABLE'
	  AND l.quantity_remaining > 0
	  AND l.expiration_date IS NOT NULL
	  AND l.expiration_date <= $1
	GROUP BY l.id, l.component_id, c.name, l.quantity_remaining, l.expiration_date, l.state
	ORDER BY l.expiration_date`

	rows, err := r.q.Query(ctx, query, time.Now().Add(within))
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()

	var lots []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		var openTypes []string
		if err := rows.Scan(
			&l.ID, &l.ComponentID, &l.ComponentName, &l.QuantityRemaining,
			&l.ExpirationDate, &l.State, &openTypes,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		l.OpenAlertTypes = toAlertTypes(openTypes)
		lots = append(lots, &l)
	}
	return lots, rows.Err()
}

func toAlertTypes(types []string) []entity.AlertType {
	if len(types) == 0 {
		return nil
	}
	out := make([]entity.AlertType, 0, len(types))
	for _, t := range types {
		out = append(out, entity.AlertType(t))
	}
	return out
}
