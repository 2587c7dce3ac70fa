package dto

import (
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// AlertDTO representación de una alerta en respuestas HTTP.
type AlertDTO struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Severity        string     `json:"severity"`
	ComponentID     *string    `json:"component_id,omitempty"`
	LotID           *string    `json:"lot_id,omitempty"`
	Message         string     `json:"message"`
	Status          string     `json:"status"`
	GeneratedAt     time.Time  `json:"generated_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      *string    `json:"resolved_by,omitempty"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty"`
}

// AlertToDTO convierte la entidad a su representación HTTP.
func AlertToDTO(a *entity.Alert) AlertDTO {
	return AlertDTO{
		ID:              a.ID,
		Type:            string(a.Type),
		Severity:        string(a.Severity),
		ComponentID:     a.ComponentID,
		LotID:           a.LotID,
		Message:         a.Message,
		Status:          string(a.Status),
		GeneratedAt:     a.GeneratedAt,
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
		ResolutionNotes: a.ResolutionNotes,
	}
}

// GenerationByTypeDTO desglose por tipo de las alertas creadas en un barrido.
type GenerationByTypeDTO struct {
	StockMinimum       int `json:"stock_minimum"`
	StockCritical      int `json:"stock_critical"`
	ExpirationUpcoming int `json:"expiration_upcoming"`
	ExpirationCritical int `json:"expiration_critical"`
}

// GenerationFailureDTO ítem que falló durante el barrido. Los fallos por ítem
// no abortan el barrido; se reportan dentro del resultado.
type GenerationFailureDTO struct {
	SubjectID string `json:"subject_id"`
	Kind      string `json:"kind"` // "component" | "lot"
	Reason    string `json:"reason"`
}

// GenerationResultDTO resultado de POST /api/alerts/generate.
type GenerationResultDTO struct {
	AlertsGenerated int                    `json:"alerts_generated"`
	ByType          GenerationByTypeDTO    `json:"by_type"`
	FailedItems     []GenerationFailureDTO `json:"failed_items,omitempty"`
}

// Add incrementa el contador del tipo dado.
func (b *GenerationByTypeDTO) Add(t entity.AlertType) {
	switch t {
	case entity.AlertStockMinimum:
		b.StockMinimum++
	case entity.AlertStockCritical:
		b.StockCritical++
	case entity.AlertExpirationUpcoming:
		b.ExpirationUpcoming++
	case entity.AlertExpirationCritical:
		b.ExpirationCritical++
	}
}

// ResolveAlertRequest cuerpo de POST /api/alerts/:id/resolve.
// El actor (resolved_by) proviene del token, no del cuerpo.
type ResolveAlertRequest struct {
	Notes string `json:"notes"`
}

// ListAlertsRequest query params de GET /api/alerts. Los filtros vacíos no aplican.
type ListAlertsRequest struct {
	Type        string `query:"type"`
	Severity    string `query:"severity"`
	Status      string `query:"status"`
	ComponentID string `query:"component_id"`
	From        string `query:"from"` // fecha RFC3339 o YYYY-MM-DD
	To          string `query:"to"`
	PageRequest
}

// AlertListResponse respuesta paginada del listado de alertas.
type AlertListResponse struct {
	Items []AlertDTO `json:"items"`
	PageResponse
}

// TypeCountDTO conteo por tipo para el dashboard.
type TypeCountDTO struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DashboardAlertsSummaryDTO respuesta de GET /api/dashboard/alerts-summary.
type DashboardAlertsSummaryDTO struct {
	OpenTotal         int            `json:"open_total"`
	OpenCriticalTotal int            `json:"open_critical_total"`
	CountsByType      []TypeCountDTO `json:"counts_by_type"`
	MostRecentOpen    []AlertDTO     `json:"most_recent_open"`
}
