package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/alerting"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	GenerateUC *alerting.GenerateAlertsUseCase
	ResolveUC  *alerting.ResolveAlertUseCase
	QueryUC    *alerting.AlertQueryUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Alertas de inventario (protegido). Consultar puede cualquier rol
	// autenticado; generar y resolver queda para admin y supervisor.
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.GenerateUC, deps.ResolveUC, deps.QueryUC)
	alerts.Post("/generate", RequireRole("admin", "supervisor"), alertHandler.Generate)
	alerts.Get("/", alertHandler.List)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Post("/:id/resolve", RequireRole("admin", "supervisor"), alertHandler.Resolve)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.QueryUC)
	dashboard.Get("/alerts-summary", dashboardHandler.AlertsSummary)
}
