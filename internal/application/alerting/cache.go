package alerting

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
)

const summaryCacheKey = "dashboard:alerts-summary"

// SummaryCache caché TTL inyectada para el resumen de alertas del dashboard.
// Contrato de invalidación: Generate y Resolve la invalidan al escribir; el
// TTL cubre las escrituras que lleguen por otras instancias del proceso.
// Se inyecta explícitamente en los casos de uso; no es un singleton de módulo.
type SummaryCache struct {
	c *gocache.Cache
}

// NewSummaryCache construye la caché con el TTL dado. Un TTL <= 0 desactiva
// la expiración automática (solo invalidación explícita).
func NewSummaryCache(ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &SummaryCache{c: gocache.New(ttl, 2*ttl)}
}

// Get devuelve el resumen cacheado, si existe y no expiró.
func (s *SummaryCache) Get() (*dto.DashboardAlertsSummaryDTO, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.c.Get(summaryCacheKey)
	if !ok {
		return nil, false
	}
	summary, ok := v.(*dto.DashboardAlertsSummaryDTO)
	return summary, ok
}

// Set guarda el resumen con el TTL por defecto de la caché.
func (s *SummaryCache) Set(summary *dto.DashboardAlertsSummaryDTO) {
	if s == nil {
		return
	}
	s.c.SetDefault(summaryCacheKey, summary)
}

// Invalidate descarta el resumen cacheado.
func (s *SummaryCache) Invalidate() {
	if s == nil {
		return
	}
	s.c.Delete(summaryCacheKey)
}
