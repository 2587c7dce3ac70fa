// Package alerting contiene la lógica pura del motor de alertas de inventario:
// clasificación por umbrales de existencia y de vencimiento de lotes.
package alerting

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// Thresholds umbrales de clasificación. Los valores por defecto replican las
// reglas operativas de la plataforma: piso crítico absoluto de 2 unidades,
// vencimiento crítico a menos de 7 días y próximo a menos de 30.
type Thresholds struct {
	StockCriticalFloor     decimal.Decimal
	ExpirationCriticalDays int
	ExpirationUpcomingDays int
}

// DefaultThresholds devuelve los umbrales operativos por defecto.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StockCriticalFloor:     decimal.NewFromInt(2),
		ExpirationCriticalDays: 7,
		ExpirationUpcomingDays: 30,
	}
}

// Classification resultado de aplicar una regla de umbral a un candidato.
// El mensaje captura los valores que dispararon la alerta (hechos puntuales
// que el libro de stock no conserva).
type Classification struct {
	Type     entity.AlertType
	Severity entity.AlertSeverity
	Message  string
}

// Classifier funciones puras de clasificación, sin efectos secundarios.
// Dos familias independientes de reglas: cantidad y días-a-vencer.
type Classifier struct {
	th Thresholds
	p  *message.Printer
}

// NewClassifier construye el clasificador con los umbrales dados.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{
		th: th,
		p:  message.NewPrinter(language.MustParse("es-CO")),
	}
}

// ClassifyStock aplica las reglas de existencia a una lectura de componente.
// El piso crítico se evalúa primero y corta en seco: si dispara, la regla de
// umbral mínimo no se evalúa en esta pasada. Devuelve nil si ninguna regla aplica.
func (c *Classifier) ClassifyStock(comp *entity.ComponentStock) *Classification {
	if comp.QuantityOnHand.LessThan(c.th.StockCriticalFloor) {
		return &Classification{
			Type:     entity.AlertStockCritical,
			Severity: entity.SeverityForType(entity.AlertStockCritical),
			Message: c.p.Sprintf(
				"Existencia crítica del componente %q: quedan %s unidades (piso crítico: %s)",
				comp.Name, comp.QuantityOnHand.String(), c.th.StockCriticalFloor.String(),
			),
		}
	}
	if comp.MinimumQuantity != nil && comp.QuantityOnHand.LessThan(*comp.MinimumQuantity) {
		return &Classification{
			Type:     entity.AlertStockMinimum,
			Severity: entity.SeverityForType(entity.AlertStockMinimum),
			Message: c.p.Sprintf(
				"Existencia bajo el umbral mínimo del componente %q: quedan %s unidades de un mínimo de %s",
				comp.Name, comp.QuantityOnHand.String(), comp.MinimumQuantity.String(),
			),
		}
	}
	return nil
}

// ClassifyExpiration aplica las reglas de vencimiento a un lote. Solo se evalúan
// lotes con fecha de vencimiento y cantidad restante > 0; los demás quedan
// exentos. La regla crítica corta en seco la de vencimiento próximo.
// Devuelve nil si ninguna regla aplica.
func (c *Classifier) ClassifyExpiration(lot *entity.Lot, now time.Time) *Classification {
	if lot.ExpirationDate == nil || !lot.QuantityRemaining.IsPositive() {
		return nil
	}
	days := DaysUntil(now, *lot.ExpirationDate)
	switch {
	case days < c.th.ExpirationCriticalDays:
		return &Classification{
			Type:     entity.AlertExpirationCritical,
			Severity: entity.SeverityForType(entity.AlertExpirationCritical),
			Message: c.p.Sprintf(
				"Vencimiento crítico: el lote %s del componente %q vence en %d %s; quedan %s unidades",
				lot.ID, lot.ComponentName, days, dayWord(days), lot.QuantityRemaining.String(),
			),
		}
	case days < c.th.ExpirationUpcomingDays:
		return &Classification{
			Type:     entity.AlertExpirationUpcoming,
			Severity: entity.SeverityForType(entity.AlertExpirationUpcoming),
			Message: c.p.Sprintf(
				"Vencimiento próximo: el lote %s del componente %q vence en %d %s; quedan %s unidades",
				lot.ID, lot.ComponentName, days, dayWord(days), lot.QuantityRemaining.String(),
			),
		}
	}
	return nil
}

// DaysUntil días restantes hasta la fecha de vencimiento: ceil((exp - now) / 24h).
// Un lote que vence hoy mismo (o ya venció) devuelve <= 0.
func DaysUntil(now, expiration time.Time) int {
	return int(math.Ceil(expiration.Sub(now).Hours() / 24))
}

func dayWord(days int) string {
	if days == 1 {
		return "día"
	}
	return "días"
}
