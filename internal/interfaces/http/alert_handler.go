package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/alerting"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

// AlertHandler maneja las peticiones HTTP del motor de alertas de inventario (protegido).
type AlertHandler struct {
	generate *alerting.GenerateAlertsUseCase
	resolve  *alerting.ResolveAlertUseCase
	query    *alerting.AlertQueryUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(
	generate *alerting.GenerateAlertsUseCase,
	resolve *alerting.ResolveAlertUseCase,
	query *alerting.AlertQueryUseCase,
) *AlertHandler {
	return &AlertHandler{generate: generate, resolve: resolve, query: query}
}

// Generate godoc
// @Summary      Ejecutar barrido de generación de alertas
// @Description  Recorre el catálogo de componentes y lotes, clasifica riesgo y
//
//	crea las alertas que falten. Idempotente: re-invocarlo sin cambios
//	en el inventario no crea duplicados.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenerationResultDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/generate [post]
func (h *AlertHandler) Generate(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	result, err := h.generate.Generate(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}

// Resolve godoc
// @Summary      Resolver una alerta
// @Description  Transición terminal OPEN -> RESOLVED. El actor sale del token;
//
//	las notas son opcionales. Resolver dos veces es un error del caller.
//
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la alerta"
// @Param        body  body  dto.ResolveAlertRequest  false  "notas de resolución"
// @Success      200  {object}  dto.AlertDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ResolveAlertRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	alert, err := h.resolve.Resolve(c.Context(), c.Params("id"), userID, in.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		case errors.Is(err, domain.ErrAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_RESOLVED", Message: "la alerta ya fue resuelta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AlertToDTO(alert))
}

// List godoc
// @Summary      Listar alertas
// @Description  Listado filtrable y paginado. Orden por defecto: severidad
//
//	CRITICAL primero y, a igual severidad, las más recientes.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        type          query  string  false  "STOCK_MINIMUM | STOCK_CRITICAL | EXPIRATION_UPCOMING | EXPIRATION_CRITICAL"
// @Param        severity      query  string  false  "WARNING | CRITICAL"
// @Param        status        query  string  false  "OPEN | RESOLVED"
// @Param        component_id  query  string  false  "Filtrar por componente (UUID)"
// @Param        from          query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit         query  int     false  "Tamaño de página (1-100, por defecto 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.ListAlertsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	resp, err := h.query.List(c.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros o paginación inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Consultar una alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	alert, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(alert)
}
