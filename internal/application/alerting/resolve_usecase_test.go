package alerting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appalerting "github.com/jhoicas/Mantenimiento-api/internal/application/alerting"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

func newResolveEnv() (*fakeAlertStore, *appalerting.ResolveAlertUseCase) {
	store := newFakeAlertStore()
	uc := appalerting.NewResolveAlertUseCase(
		&fakeTxRunner{store: store},
		appalerting.NewSummaryCache(time.Minute),
	)
	return store, uc
}

func seedOpenAlert(t *testing.T, store *fakeAlertStore, id, componentID string) *entity.Alert {
	t.Helper()
	alert := &entity.Alert{
		ID:          id,
		ComponentID: &componentID,
		Type:        entity.AlertStockCritical,
		Severity:    entity.SeverityCritical,
		Message:     "Existencia crítica",
		Status:      entity.StatusOpen,
		GeneratedAt: time.Now(),
	}
	require.NoError(t, store.Create(context.Background(), alert))
	return alert
}

// TestResolve_Exitoso resolver una alerta abierta estampa estado, fecha, actor
// y notas, y devuelve la alerta ya resuelta.
func TestResolve_Exitoso(t *testing.T) {
	store, uc := newResolveEnv()
	seedOpenAlert(t, store, "alert-1", "comp-x")

	resolved, err := uc.Resolve(context.Background(), "alert-1", "user-7", "pedido en camino")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.WithinDuration(t, time.Now(), *resolved.ResolvedAt, 2*time.Second)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "user-7", *resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolutionNotes)
	assert.Equal(t, "pedido en camino", *resolved.ResolutionNotes)

	// El cambio quedó persistido, no solo en la copia devuelta.
	stored, err := store.GetByID(context.Background(), "alert-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusResolved, stored.Status)
}

// TestResolve_SinNotas las notas son opcionales; sin ellas el campo queda nulo.
func TestResolve_SinNotas(t *testing.T) {
	store, uc := newResolveEnv()
	seedOpenAlert(t, store, "alert-1", "comp-x")

	resolved, err := uc.Resolve(context.Background(), "alert-1", "user-7", "")

	require.NoError(t, err)
	assert.Nil(t, resolved.ResolutionNotes)
}

// TestResolve_NoExiste resolver un id desconocido devuelve ErrNotFound.
func TestResolve_NoExiste(t *testing.T) {
	_, uc := newResolveEnv()

	_, err := uc.Resolve(context.Background(), "no-existe", "user-7", "")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestResolve_YaResuelta la segunda resolución falla con ErrAlreadyResolved y
// no pisa la auditoría de la primera: actor, fecha y notas quedan intactos.
func TestResolve_YaResuelta(t *testing.T) {
	store, uc := newResolveEnv()
	seedOpenAlert(t, store, "alert-1", "comp-x")

	first, err := uc.Resolve(context.Background(), "alert-1", "user-7", "pedido en camino")
	require.NoError(t, err)

	_, err = uc.Resolve(context.Background(), "alert-1", "user-9", "yo también")
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)

	stored, err := store.GetByID(context.Background(), "alert-1")
	require.NoError(t, err)
	assert.Equal(t, "user-7", *stored.ResolvedBy, "el primer actor se conserva")
	assert.Equal(t, *first.ResolvedAt, *stored.ResolvedAt)
	assert.Equal(t, "pedido en camino", *stored.ResolutionNotes)
}

// TestResolve_EntradaInvalida id o actor vacíos se rechazan antes de tocar el
// almacén.
func TestResolve_EntradaInvalida(t *testing.T) {
	_, uc := newResolveEnv()

	_, err := uc.Resolve(context.Background(), "", "user-7", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Resolve(context.Background(), "alert-1", "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
