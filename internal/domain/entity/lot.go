package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotState estado de un lote. DEPLETED sí y solo sí quantity_remaining = 0;
// la transición ocurre por ajustes de cantidad fuera de este motor.
type LotState string

const (
	LotAvailable LotState = "AVAILABLE"
	LotDepleted  LotState = "DEPLETED"
)

// Lot lectura puntual de un lote del libro de lotes. Solo los lotes AVAILABLE
// con cantidad > 0 y fecha de vencimiento no nula son candidatos al escaneo
// de vencimientos.
type Lot struct {
	ID                string
	ComponentID       string
	ComponentName     string
	QuantityRemaining decimal.Decimal
	// ExpirationDate nil = lote sin vencimiento, exento de alertas de vencimiento.
	ExpirationDate *time.Time
	State          LotState

	// OpenAlertTypes tipos de alerta actualmente OPEN para este lote.
	OpenAlertTypes []AlertType
}

// HasOpenAlert indica si el lote ya tiene una alerta OPEN del tipo dado.
func (l *Lot) HasOpenAlert(t AlertType) bool {
	for _, open := range l.OpenAlertTypes {
		if open == t {
			return true
		}
	}
	return false
}
