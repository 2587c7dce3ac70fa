package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

const dashboardRecentAlerts = 10 // alertas recientes en el widget del dashboard

// AlertQueryUseCase listados filtrados/paginados y resumen para el dashboard.
// Opera solo sobre el almacén de alertas; lecturas con semántica read-committed
// (un conteo levemente desactualizado frente a un barrido concurrente es aceptable).
type AlertQueryUseCase struct {
	alerts repository.AlertRepository
	cache  *SummaryCache
}

// NewAlertQueryUseCase construye el caso de uso.
func NewAlertQueryUseCase(alerts repository.AlertRepository, cache *SummaryCache) *AlertQueryUseCase {
	return &AlertQueryUseCase{alerts: alerts, cache: cache}
}

// List devuelve la página de alertas según los filtros. Parámetros malformados
// (tipo/severidad/estado fuera de la taxonomía, fechas inválidas, paginación
// fuera de rango) devuelven domain.ErrInvalidInput.
func (uc *AlertQueryUseCase) List(ctx context.Context, req dto.ListAlertsRequest) (*dto.AlertListResponse, error) {
	req.DefaultPage()
	if !req.Valid() {
		return nil, domain.ErrInvalidInput
	}
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}

	alerts, total, err := uc.alerts.List(ctx, filter, req.Limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar alertas: %w", err)
	}

	items := make([]dto.AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, dto.AlertToDTO(a))
	}
	return &dto.AlertListResponse{
		Items: items,
		PageResponse: dto.PageResponse{
			Limit:  req.Limit,
			Offset: req.Offset,
			Total:  total,
		},
	}, nil
}

// GetByID devuelve una alerta o domain.ErrNotFound.
func (uc *AlertQueryUseCase) GetByID(ctx context.Context, id string) (*dto.AlertDTO, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	alert, err := uc.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consultar alerta: %w", err)
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	d := dto.AlertToDTO(alert)
	return &d, nil
}

// DashboardSummary construye el resumen de alertas para el dashboard.
//
// Tres consultas en paralelo sobre el almacén:
//  1. CountOpen          → total abiertas + críticas abiertas
//  2. OpenCountsByType   → desglose por tipo
//  3. MostRecentOpen(10) → alertas abiertas más recientes
//
// El resultado se sirve desde la caché inyectada mientras no la invalide
// una generación o una resolución (o expire su TTL).
func (uc *AlertQueryUseCase) DashboardSummary(ctx context.Context) (*dto.DashboardAlertsSummaryDTO, error) {
	if cached, ok := uc.cache.Get(); ok {
		return cached, nil
	}

	type countsResult struct {
		total    int
		critical int
		err      error
	}
	type byTypeResult struct {
		counts []repository.TypeCount
		err    error
	}
	type recentResult struct {
		alerts []*entity.Alert
		err    error
	}

	countsCh := make(chan countsResult, 1)
	byTypeCh := make(chan byTypeResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		total, critical, err := uc.alerts.CountOpen(ctx)
		countsCh <- countsResult{total, critical, err}
	}()
	go func() {
		counts, err := uc.alerts.OpenCountsByType(ctx)
		byTypeCh <- byTypeResult{counts, err}
	}()
	go func() {
		alerts, err := uc.alerts.MostRecentOpen(ctx, dashboardRecentAlerts)
		recentCh <- recentResult{alerts, err}
	}()

	counts := <-countsCh
	byType := <-byTypeCh
	recent := <-recentCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de abiertas: %w", counts.err)
	}
	if byType.err != nil {
		return nil, fmt.Errorf("dashboard: desglose por tipo: %w", byType.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: alertas recientes: %w", recent.err)
	}

	typeCounts := make([]dto.TypeCountDTO, 0, len(byType.counts))
	for _, tc := range byType.counts {
		typeCounts = append(typeCounts, dto.TypeCountDTO{Type: string(tc.Type), Count: tc.Count})
	}
	recentDTOs := make([]dto.AlertDTO, 0, len(recent.alerts))
	for _, a := range recent.alerts {
		recentDTOs = append(recentDTOs, dto.AlertToDTO(a))
	}

	summary := &dto.DashboardAlertsSummaryDTO{
		OpenTotal:         counts.total,
		OpenCriticalTotal: counts.critical,
		CountsByType:      typeCounts,
		MostRecentOpen:    recentDTOs,
	}
	uc.cache.Set(summary)
	return summary, nil
}

// parseFilter valida y convierte los query params a un filtro del repositorio.
func parseFilter(req dto.ListAlertsRequest) (repository.AlertFilter, error) {
	var filter repository.AlertFilter

	if req.Type != "" {
		t := entity.AlertType(req.Type)
		if !t.IsValid() {
			return filter, domain.ErrInvalidInput
		}
		filter.Type = &t
	}
	if req.Severity != "" {
		s := entity.AlertSeverity(req.Severity)
		if s != entity.SeverityWarning && s != entity.SeverityCritical {
			return filter, domain.ErrInvalidInput
		}
		filter.Severity = &s
	}
	if req.Status != "" {
		st := entity.AlertStatus(req.Status)
		if st != entity.StatusOpen && st != entity.StatusResolved {
			return filter, domain.ErrInvalidInput
		}
		filter.Status = &st
	}
	if req.ComponentID != "" {
		filter.ComponentID = &req.ComponentID
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, domain.ErrInvalidInput
	}
	return filter, nil
}

// parseDate acepta RFC3339 o fecha simple YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
