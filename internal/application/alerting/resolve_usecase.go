package alerting

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// ResolveAlertUseCase transición terminal OPEN -> RESOLVED de una alerta.
// No hay arista de vuelta: si la condición persiste, el siguiente barrido
// crea una alerta nueva con otro id y la resuelta queda como historial.
type ResolveAlertUseCase struct {
	tx    TxRunner
	cache *SummaryCache
}

// NewResolveAlertUseCase construye el caso de uso.
func NewResolveAlertUseCase(tx TxRunner, cache *SummaryCache) *ResolveAlertUseCase {
	return &ResolveAlertUseCase{tx: tx, cache: cache}
}

// Resolve marca la alerta como resuelta registrando actor, fecha y notas.
// Corre en una transacción con bloqueo de fila (SELECT FOR UPDATE): de dos
// resoluciones concurrentes solo una gana; la otra observa el estado RESOLVED
// y recibe domain.ErrAlreadyResolved sin pisar los campos de auditoría.
func (uc *ResolveAlertUseCase) Resolve(
	ctx context.Context,
	alertID, resolvedBy, notes string,
) (*entity.Alert, error) {
	if alertID == "" || resolvedBy == "" {
		return nil, domain.ErrInvalidInput
	}

	var resolved *entity.Alert
	err := uc.tx.Run(ctx, func(alerts repository.AlertRepository) error {
		alert, err := alerts.GetByIDForUpdate(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil {
			return domain.ErrNotFound
		}
		if alert.Status == entity.StatusResolved {
			return domain.ErrAlreadyResolved
		}

		now := time.Now()
		alert.Status = entity.StatusResolved
		alert.ResolvedAt = &now
		alert.ResolvedBy = &resolvedBy
		if notes != "" {
			alert.ResolutionNotes = &notes
		}
		if err := alerts.Resolve(ctx, alert); err != nil {
			return err
		}
		resolved = alert
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate()
	return resolved, nil
}
