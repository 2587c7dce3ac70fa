package entity

import "github.com/shopspring/decimal"

// ComponentStock lectura puntual del libro de stock de componentes.
// El ciclo de vida del componente (altas, movimientos) es externo a este motor;
// aquí solo se consume para clasificar riesgo de existencias.
type ComponentStock struct {
	ID             string
	Name           string
	QuantityOnHand decimal.Decimal
	// MinimumQuantity umbral mínimo configurado; nil = el componente no tiene umbral.
	MinimumQuantity *decimal.Decimal

	// OpenAlertTypes tipos de alerta actualmente OPEN para este componente,
	// cargados junto con la lectura para evitar una consulta por candidato.
	OpenAlertTypes []AlertType
}

// HasOpenAlert indica si el componente ya tiene una alerta OPEN del tipo dado.
func (c *ComponentStock) HasOpenAlert(t AlertType) bool {
	for _, open := range c.OpenAlertTypes {
		if open == t {
			return true
		}
	}
	return false
}
