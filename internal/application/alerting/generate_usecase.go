// Package alerting contiene los casos de uso del motor de alertas de stock y
// vencimiento de lotes: generación (barrido), resolución y consultas.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/alerting"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// systemActor identidad usada cuando el propio motor cierra una alerta
// (escalamiento de mínimo a crítico durante el barrido).
const systemActor = "system"

// GenerateAlertsUseCase recorre el libro de componentes y el de lotes, aplica
// el clasificador de umbrales y crea las alertas que falten.
//
// El barrido es idempotente respecto a las alertas ya abiertas y seguro bajo
// invocaciones concurrentes: el chequeo "¿ya hay una alerta abierta de este
// tipo?" se hace en memoria con los tipos cargados junto al candidato, y el
// índice único parcial de la tabla cierra la carrera check-then-act — un
// domain.ErrDuplicate en el insert significa que otra pasada ganó, no un fallo.
type GenerateAlertsUseCase struct {
	components repository.ComponentLedger
	lots       repository.LotLedger
	alerts     repository.AlertRepository
	classifier *alerting.Classifier
	// window ventana hacia adelante del escaneo de vencimientos.
	window time.Duration
	cache  *SummaryCache
}

// NewGenerateAlertsUseCase construye el caso de uso.
func NewGenerateAlertsUseCase(
	components repository.ComponentLedger,
	lots repository.LotLedger,
	alerts repository.AlertRepository,
	classifier *alerting.Classifier,
	window time.Duration,
	cache *SummaryCache,
) *GenerateAlertsUseCase {
	return &GenerateAlertsUseCase{
		components: components,
		lots:       lots,
		alerts:     alerts,
		classifier: classifier,
		window:     window,
		cache:      cache,
	}
}

// sweepPartial acumulado de una fase del barrido (stock o lotes).
type sweepPartial struct {
	created int
	byType  dto.GenerationByTypeDTO
	failed  []dto.GenerationFailureDTO
}

func (p *sweepPartial) fail(subjectID, kind string, err error) {
	p.failed = append(p.failed, dto.GenerationFailureDTO{
		SubjectID: subjectID,
		Kind:      kind,
		Reason:    err.Error(),
	})
}

// Generate ejecuta un barrido completo del catálogo. Las dos fases (stock y
// vencimientos) corren en paralelo; los fallos por ítem se acumulan en el
// resultado sin abortar el barrido. Cancelar el contexto corta el barrido;
// las alertas ya creadas quedan (cada una es independientemente correcta).
func (uc *GenerateAlertsUseCase) Generate(ctx context.Context) (*dto.GenerationResultDTO, error) {
	now := time.Now()

	var stockPart, lotPart *sweepPartial
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		part, err := uc.sweepStock(gctx, now)
		stockPart = part
		return err
	})
	g.Go(func() error {
		part, err := uc.sweepLots(gctx, now)
		lotPart = part
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &dto.GenerationResultDTO{
		AlertsGenerated: stockPart.created + lotPart.created,
		ByType: dto.GenerationByTypeDTO{
			StockMinimum:       stockPart.byType.StockMinimum,
			StockCritical:      stockPart.byType.StockCritical,
			ExpirationUpcoming: lotPart.byType.ExpirationUpcoming,
			ExpirationCritical: lotPart.byType.ExpirationCritical,
		},
		FailedItems: append(stockPart.failed, lotPart.failed...),
	}
	if result.AlertsGenerated > 0 {
		uc.cache.Invalidate()
	}
	return result, nil
}

// sweepStock fase de existencias: clasifica cada componente y abre la alerta
// que falte. La regla crítica subsume la de mínimo: nunca quedan las dos
// abiertas para el mismo componente.
func (uc *GenerateAlertsUseCase) sweepStock(ctx context.Context, now time.Time) (*sweepPartial, error) {
	readings, err := uc.components.ListStockReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar lecturas de stock: %w", err)
	}
	part := &sweepPartial{}
	for _, comp := range readings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cls := uc.classifier.ClassifyStock(comp)
		if cls == nil || comp.HasOpenAlert(cls.Type) {
			continue
		}
		// Crítica y mínima son mutuamente excluyentes por componente: la crítica
		// abierta subsume una clasificación de mínimo, y al escalar se cierra la
		// de mínimo antes de abrir la crítica.
		if cls.Type == entity.AlertStockMinimum && comp.HasOpenAlert(entity.AlertStockCritical) {
			continue
		}
		if cls.Type == entity.AlertStockCritical && comp.HasOpenAlert(entity.AlertStockMinimum) {
			err := uc.alerts.ResolveOpenForSubject(ctx, comp.ID, entity.AlertStockMinimum,
				systemActor, "escalada a existencia crítica")
			if err != nil {
				part.fail(comp.ID, "component", err)
				continue
			}
		}
		if err := uc.create(ctx, part, comp.ID, "component", cls, &entity.Alert{
			ComponentID: &comp.ID,
		}, now); err != nil {
			return nil, err
		}
	}
	return part, nil
}

// sweepLots fase de vencimientos sobre los lotes de la ventana hacia adelante.
// A diferencia de la familia de stock, EXPIRATION_CRITICAL no cierra una
// EXPIRATION_UPCOMING abierta: el corte en seco aplica solo dentro de la pasada.
func (uc *GenerateAlertsUseCase) sweepLots(ctx context.Context, now time.Time) (*sweepPartial, error) {
	lots, err := uc.lots.ListExpiringLots(ctx, uc.window)
	if err != nil {
		return nil, fmt.Errorf("listar lotes por vencer: %w", err)
	}
	part := &sweepPartial{}
	for _, lot := range lots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cls := uc.classifier.ClassifyExpiration(lot, now)
		if cls == nil || lot.HasOpenAlert(cls.Type) {
			continue
		}
		if err := uc.create(ctx, part, lot.ID, "lot", cls, &entity.Alert{
			LotID: &lot.ID,
		}, now); err != nil {
			return nil, err
		}
	}
	return part, nil
}

// create inserta la alerta clasificada y actualiza el acumulado de la fase.
// ErrDuplicate = otro barrido concurrente ya señaló la condición; se omite.
func (uc *GenerateAlertsUseCase) create(
	ctx context.Context,
	part *sweepPartial,
	subjectID, kind string,
	cls *alerting.Classification,
	alert *entity.Alert,
	now time.Time,
) error {
	alert.ID = uuid.New().String()
	alert.Type = cls.Type
	alert.Severity = cls.Severity
	alert.Message = cls.Message
	alert.Status = entity.StatusOpen
	alert.GeneratedAt = now

	switch err := uc.alerts.Create(ctx, alert); {
	case errors.Is(err, domain.ErrDuplicate):
		// ya existe una alerta abierta para este (sujeto, tipo)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case err != nil:
		part.fail(subjectID, kind, err)
	default:
		part.created++
		part.byType.Add(cls.Type)
	}
	return nil
}
