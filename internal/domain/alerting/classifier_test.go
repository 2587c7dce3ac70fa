package alerting_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/alerting"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newClassifier() *alerting.Classifier {
	return alerting.NewClassifier(alerting.DefaultThresholds())
}

func componentWith(qty float64, min *float64) *entity.ComponentStock {
	c := &entity.ComponentStock{
		ID:             "comp-1",
		Name:           "Filtro de aceite",
		QuantityOnHand: decimal.NewFromFloat(qty),
	}
	if min != nil {
		m := decimal.NewFromFloat(*min)
		c.MinimumQuantity = &m
	}
	return c
}

func lotExpiringIn(days float64, qty float64) *entity.Lot {
	exp := time.Now().Add(time.Duration(days * 24 * float64(time.Hour)))
	return &entity.Lot{
		ID:                "lot-1",
		ComponentID:       "comp-1",
		ComponentName:     "Sello hidráulico",
		QuantityRemaining: decimal.NewFromFloat(qty),
		ExpirationDate:    &exp,
		State:             entity.LotAvailable,
	}
}

func floatPtr(f float64) *float64 { return &f }

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de existencias
// ──────────────────────────────────────────────────────────────────────────────

// TestClassifyStock_PisoCritico verifica que una cantidad bajo el piso absoluto
// produce STOCK_CRITICAL y que la regla de umbral mínimo no se evalúa por
// separado: el piso crítico subsume al mínimo.
func TestClassifyStock_PisoCritico(t *testing.T) {
	cls := newClassifier().ClassifyStock(componentWith(1, floatPtr(10)))

	require.NotNil(t, cls, "cantidad 1 con mínimo 10 debe clasificar")
	assert.Equal(t, entity.AlertStockCritical, cls.Type,
		"el piso crítico corta en seco: nunca STOCK_MINIMUM para este componente")
	assert.Equal(t, entity.SeverityCritical, cls.Severity)
	assert.Contains(t, cls.Message, "1", "el mensaje debe capturar la cantidad disparadora")
	assert.Contains(t, cls.Message, "Filtro de aceite")
}

func TestClassifyStock_BajoMinimo(t *testing.T) {
	cls := newClassifier().ClassifyStock(componentWith(5, floatPtr(10)))

	require.NotNil(t, cls)
	assert.Equal(t, entity.AlertStockMinimum, cls.Type)
	assert.Equal(t, entity.SeverityWarning, cls.Severity)
	assert.Contains(t, cls.Message, "5")
	assert.Contains(t, cls.Message, "10")
}

func TestClassifyStock_SinUmbralMinimo(t *testing.T) {
	// Componente sin umbral configurado: solo aplica el piso crítico absoluto.
	assert.Nil(t, newClassifier().ClassifyStock(componentWith(5, nil)))
	assert.NotNil(t, newClassifier().ClassifyStock(componentWith(1, nil)))
}

func TestClassifyStock_SobreUmbral(t *testing.T) {
	assert.Nil(t, newClassifier().ClassifyStock(componentWith(15, floatPtr(10))))
}

// TestClassifyStock_BordeDelPiso verifica el borde exacto: el piso es estricto
// (cantidad < 2), así que 2 unidades no son críticas.
func TestClassifyStock_BordeDelPiso(t *testing.T) {
	cls := newClassifier().ClassifyStock(componentWith(2, floatPtr(10)))

	require.NotNil(t, cls)
	assert.Equal(t, entity.AlertStockMinimum, cls.Type,
		"2 unidades no cruzan el piso crítico pero sí el mínimo de 10")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de vencimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyExpiration_VencimientoCritico(t *testing.T) {
	lot := lotExpiringIn(5, 50)
	now := time.Now()

	cls := newClassifier().ClassifyExpiration(lot, now)

	require.NotNil(t, cls)
	assert.Equal(t, entity.AlertExpirationCritical, cls.Type)
	assert.Equal(t, entity.SeverityCritical, cls.Severity)
	assert.Contains(t, cls.Message, "5", "el mensaje debe capturar los días restantes")
	assert.Contains(t, cls.Message, "Sello hidráulico")
}

func TestClassifyExpiration_VencimientoProximo(t *testing.T) {
	cls := newClassifier().ClassifyExpiration(lotExpiringIn(20, 50), time.Now())

	require.NotNil(t, cls)
	assert.Equal(t, entity.AlertExpirationUpcoming, cls.Type)
	assert.Equal(t, entity.SeverityWarning, cls.Severity)
	assert.Contains(t, cls.Message, "20")
}

func TestClassifyExpiration_FueraDeVentana(t *testing.T) {
	assert.Nil(t, newClassifier().ClassifyExpiration(lotExpiringIn(45, 50), time.Now()))
}

func TestClassifyExpiration_LoteSinVencimiento(t *testing.T) {
	lot := lotExpiringIn(5, 50)
	lot.ExpirationDate = nil
	assert.Nil(t, newClassifier().ClassifyExpiration(lot, time.Now()),
		"lote sin fecha de vencimiento está exento")
}

func TestClassifyExpiration_LoteAgotado(t *testing.T) {
	assert.Nil(t, newClassifier().ClassifyExpiration(lotExpiringIn(5, 0), time.Now()),
		"lote sin cantidad restante no es candidato")
}

// TestClassifyExpiration_Bordes verifica los bordes estrictos de las dos reglas:
// exactamente 7 días no es crítico (pero sí próximo) y exactamente 30 no clasifica.
func TestClassifyExpiration_Bordes(t *testing.T) {
	lot7 := lotExpiringIn(7, 10)
	lot30 := lotExpiringIn(30, 10)
	now := time.Now()

	at7 := newClassifier().ClassifyExpiration(lot7, now)
	require.NotNil(t, at7)
	assert.Equal(t, entity.AlertExpirationUpcoming, at7.Type)

	assert.Nil(t, newClassifier().ClassifyExpiration(lot30, now))
}

// TestDaysUntil verifica el redondeo hacia arriba: 6 días y medio cuentan como 7.
func TestDaysUntil(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 5, alerting.DaysUntil(now, now.Add(5*24*time.Hour)))
	assert.Equal(t, 7, alerting.DaysUntil(now, now.Add(6*24*time.Hour+12*time.Hour)))
	assert.Equal(t, 0, alerting.DaysUntil(now, now))
	assert.LessOrEqual(t, alerting.DaysUntil(now, now.Add(-24*time.Hour)), 0,
		"un lote ya vencido devuelve días <= 0")
}

// TestClassifier_EsPuro el clasificador no muta sus entradas y es determinista.
func TestClassifier_EsPuro(t *testing.T) {
	c := newClassifier()
	comp := componentWith(1, floatPtr(10))

	first := c.ClassifyStock(comp)
	second := c.ClassifyStock(comp)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
	assert.Equal(t, "1", comp.QuantityOnHand.String())
}

// TestClassifyStock_UmbralesConfigurables el piso crítico respeta la configuración.
func TestClassifyStock_UmbralesConfigurables(t *testing.T) {
	th := alerting.DefaultThresholds()
	th.StockCriticalFloor = decimal.NewFromInt(5)
	c := alerting.NewClassifier(th)

	for qty := 0; qty < 5; qty++ {
		cls := c.ClassifyStock(componentWith(float64(qty), nil))
		require.NotNil(t, cls, "cantidad "+strconv.Itoa(qty)+" debe ser crítica con piso 5")
		assert.Equal(t, entity.AlertStockCritical, cls.Type)
	}
	assert.Nil(t, c.ClassifyStock(componentWith(5, nil)))
}
