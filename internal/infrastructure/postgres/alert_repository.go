package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
//
// La unicidad de alertas abiertas la garantizan los índices únicos parciales
// de schema.sql sobre (component_id, type) y (lot_id, type) WHERE status = 'OPEN':
// el insert que pierde la carrera recibe 23505 y se traduce a domain.ErrDuplicate.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, type, severity, component_id, lot_id, message, status,
	generated_at, resolved_at, resolved_by, resolution_notes`

// Create inserta una alerta OPEN. Devuelve domain.ErrDuplicate si ya hay una
// alerta abierta para el mismo (sujeto, tipo).
func (r *AlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_alerts (id, type, severity, component_id, lot_id, message, status, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.Type, alert.Severity, alert.ComponentID, alert.LotID,
		alert.Message, alert.Status, alert.GeneratedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID. Devuelve (nil, nil) si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM inventory_alerts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate obtiene la alerta y bloquea la fila (SELECT FOR UPDATE).
// Usar dentro de una transacción (TxRunner).
func (r *AlertRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM inventory_alerts WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *AlertRepo) getOne(ctx context.Context, query, id string) (*entity.Alert, error) {
	var a entity.Alert
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Type, &a.Severity, &a.ComponentID, &a.LotID, &a.Message,
		&a.Status, &a.GeneratedAt, &a.ResolvedAt, &a.ResolvedBy, &a.ResolutionNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &a, nil
}

// List devuelve la página filtrada y el total sin paginar. Orden por defecto:
// CRITICAL antes que WARNING y, a igual severidad, las más recientes primero.
func (r *AlertRepo) List(
	ctx context.Context,
	filter repository.AlertFilter,
	limit, offset int,
) ([]*entity.Alert, int, error) {
	where, args := buildAlertFilter(filter)

	countQuery := `SELECT COUNT(*) FROM inventory_alerts` + where
	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+alertColumns+`
		FROM inventory_alerts%s
		ORDER BY CASE severity WHEN 'CRITICAL' THEN 0 ELSE 1 END, generated_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// Resolve persiste los campos de resolución de una alerta bloqueada por el caller.
func (r *AlertRepo) Resolve(ctx context.Context, alert *entity.Alert) error {
	query := `
		UPDATE inventory_alerts
		SET status = $2, resolved_at = $3, resolved_by = $4, resolution_notes = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		alert.ID, alert.Status, alert.ResolvedAt, alert.ResolvedBy, alert.ResolutionNotes,
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResolveOpenForSubject cierra en un solo statement la alerta OPEN del sujeto
// y tipo dados, si existe (escalamiento del barrido). No es error que no exista.
func (r *AlertRepo) ResolveOpenForSubject(
	ctx context.Context,
	subjectID string,
	t entity.AlertType,
	resolvedBy, notes string,
) error {
	query := `
		UPDATE inventory_alerts
		SET status = $3, resolved_at = now(), resolved_by = $4, resolution_notes = $5
		WHERE (component_id = $1 OR lot_id = $1) AND type = $2 AND status = $6`
	_, err := r.q.Exec(ctx, query,
		subjectID, t, entity.StatusResolved, resolvedBy, notes, entity.StatusOpen,
	)
	if err != nil {
		return fmt.Errorf("resolve open alert for subject: %w", err)
	}
	return nil
}

// CountOpen total de alertas abiertas y cuántas son críticas.
func (r *AlertRepo) CountOpen(ctx context.Context) (total, critical int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE severity = 'CRITICAL')
		FROM inventory_alerts WHERE status = 'OPEN'`
	if err := r.q.QueryRow(ctx, query).Scan(&total, &critical); err != nil {
		return 0, 0, fmt.Errorf("count open alerts: %w", err)
	}
	return total, critical, nil
}

// OpenCountsByType desglose de alertas abiertas por tipo.
func (r *AlertRepo) OpenCountsByType(ctx context.Context) ([]repository.TypeCount, error) {
	query := `
		SELECT type, COUNT(*)
		FROM inventory_alerts WHERE status = 'OPEN'
		GROUP BY type
		ORDER BY COUNT(*) DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("open counts by type: %w", err)
	}
	defer rows.Close()

	var counts []repository.TypeCount
	for rows.Next() {
		var tc repository.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// MostRecentOpen las alertas abiertas más recientes.
func (r *AlertRepo) MostRecentOpen(ctx context.Context, limit int) ([]*entity.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM inventory_alerts WHERE status = 'OPEN'
		ORDER BY generated_at DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("most recent open alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// buildAlertFilter arma la cláusula WHERE con placeholders numerados.
func buildAlertFilter(filter repository.AlertFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}
	if filter.Severity != nil {
		add("severity = $%d", *filter.Severity)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.ComponentID != nil {
		add("component_id = $%d", *filter.ComponentID)
	}
	if filter.From != nil {
		add("generated_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("generated_at <= $%d", *filter.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAlerts(rows pgx.Rows) ([]*entity.Alert, error) {
	var alerts []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(
			&a.ID, &a.Type, &a.Severity, &a.ComponentID, &a.LotID, &a.Message,
			&a.Status, &a.GeneratedAt, &a.ResolvedAt, &a.ResolvedBy, &a.ResolutionNotes,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}
