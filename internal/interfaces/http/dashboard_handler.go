package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/alerting"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
)

// DashboardHandler resumen de alertas para el dashboard de administración.
type DashboardHandler struct {
	query *alerting.AlertQueryUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(query *alerting.AlertQueryUseCase) *DashboardHandler {
	return &DashboardHandler{query: query}
}

// AlertsSummary godoc
// @Summary      Resumen de alertas del dashboard
// @Description  Totales de alertas abiertas (y críticas), desglose por tipo y
//
//	las 10 alertas abiertas más recientes. Lectura cacheada; puede
//	mostrar un conteo levemente desactualizado frente a un barrido
//	concurrente.
//
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardAlertsSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/alerts-summary [get]
func (h *DashboardHandler) AlertsSummary(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summary, err := h.query.DashboardSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}
