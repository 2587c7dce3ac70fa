package alerting_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. El almacén replica los dos
// contratos que en producción garantiza PostgreSQL: el índice único parcial
// sobre (sujeto, tipo, OPEN) y el orden por severidad + fecha del listado.
// ──────────────────────────────────────────────────────────────────────────────

type fakeAlertStore struct {
	mu     sync.Mutex
	alerts []*entity.Alert

	// createErrFor fuerza un fallo de Create para el sujeto dado (fallos por ítem).
	createErrFor map[string]error
	// countOpenCalls cuenta las lecturas de agregados (para verificar la caché).
	countOpenCalls int
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{createErrFor: map[string]error{}}
}

func (s *fakeAlertStore) Create(_ context.Context, alert *entity.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.createErrFor[alert.SubjectID()]; ok {
		return err
	}
	// Índice único parcial: a lo sumo una alerta OPEN por (sujeto, tipo).
	for _, existing := range s.alerts {
		if existing.IsOpen() && existing.Type == alert.Type && existing.SubjectID() == alert.SubjectID() {
			return domain.ErrDuplicate
		}
	}
	clone := *alert
	s.alerts = append(s.alerts, &clone)
	return nil
}

func (s *fakeAlertStore) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeAlertStore) GetByIDForUpdate(ctx context.Context, id string) (*entity.Alert, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeAlertStore) List(
	_ context.Context,
	filter repository.AlertFilter,
	limit, offset int,
) ([]*entity.Alert, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*entity.Alert
	for _, a := range s.alerts {
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if filter.Severity != nil && a.Severity != *filter.Severity {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.ComponentID != nil && (a.ComponentID == nil || *a.ComponentID != *filter.ComponentID) {
			continue
		}
		if filter.From != nil && a.GeneratedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.GeneratedAt.After(*filter.To) {
			continue
		}
		clone := *a
		matched = append(matched, &clone)
	}

	// Orden por defecto del almacén: CRITICAL antes que WARNING, luego más recientes.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Severity != matched[j].Severity {
			return matched[i].Severity == entity.SeverityCritical
		}
		return matched[i].GeneratedAt.After(matched[j].GeneratedAt)
	})

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *fakeAlertStore) Resolve(_ context.Context, alert *entity.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alerts {
		if a.ID == alert.ID {
			clone := *alert
			s.alerts[i] = &clone
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeAlertStore) ResolveOpenForSubject(
	_ context.Context,
	subjectID string,
	t entity.AlertType,
	resolvedBy, notes string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, a := range s.alerts {
		if a.IsOpen() && a.Type == t && a.SubjectID() == subjectID {
			a.Status = entity.StatusResolved
			a.ResolvedAt = &now
			a.ResolvedBy = &resolvedBy
			if notes != "" {
				a.ResolutionNotes = &notes
			}
		}
	}
	return nil
}

func (s *fakeAlertStore) CountOpen(_ context.Context) (total, critical int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countOpenCalls++
	for _, a := range s.alerts {
		if !a.IsOpen() {
			continue
		}
		total++
		if a.Severity == entity.SeverityCritical {
			critical++
		}
	}
	return total, critical, nil
}

func (s *fakeAlertStore) OpenCountsByType(_ context.Context) ([]repository.TypeCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[entity.AlertType]int{}
	for _, a := range s.alerts {
		if a.IsOpen() {
			counts[a.Type]++
		}
	}
	var out []repository.TypeCount
	for t, n := range counts {
		out = append(out, repository.TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (s *fakeAlertStore) MostRecentOpen(_ context.Context, limit int) ([]*entity.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var open []*entity.Alert
	for _, a := range s.alerts {
		if a.IsOpen() {
			clone := *a
			open = append(open, &clone)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].GeneratedAt.After(open[j].GeneratedAt)
	})
	if limit < len(open) {
		open = open[:limit]
	}
	return open, nil
}

// openAlertsFor alertas OPEN de un sujeto y tipo (helper de aserciones).
func (s *fakeAlertStore) openAlertsFor(subjectID string, t entity.AlertType) []*entity.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Alert
	for _, a := range s.alerts {
		if a.IsOpen() && a.Type == t && a.SubjectID() == subjectID {
			out = append(out, a)
		}
	}
	return out
}

func (s *fakeAlertStore) allAlerts() []*entity.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.Alert(nil), s.alerts...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libros de catálogo: derivan los tipos de alerta abiertos del almacén, igual
// que el LEFT JOIN de producción, para que barridos sucesivos vean el estado real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeComponentLedger struct {
	store *fakeAlertStore
	comps []*entity.ComponentStock
	err   error
}

func (l *fakeComponentLedger) ListStockReadings(_ context.Context) ([]*entity.ComponentStock, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := make([]*entity.ComponentStock, 0, len(l.comps))
	for _, c := range l.comps {
		clone := *c
		clone.OpenAlertTypes = l.openTypes(c.ID)
		out = append(out, &clone)
	}
	return out, nil
}

func (l *fakeComponentLedger) openTypes(componentID string) []entity.AlertType {
	var types []entity.AlertType
	for _, a := range l.store.allAlerts() {
		if a.IsOpen() && a.ComponentID != nil && *a.ComponentID == componentID {
			types = append(types, a.Type)
		}
	}
	return types
}

type fakeLotLedger struct {
	store *fakeAlertStore
	lots  []*entity.Lot
	err   error
}

func (l *fakeLotLedger) ListExpiringLots(_ context.Context, within time.Duration) ([]*entity.Lot, error) {
	if l.err != nil {
		return nil, l.err
	}
	horizon := time.Now().Add(within)
	var out []*entity.Lot
	for _, lot := range l.lots {
		if lot.State != entity.LotAvailable || !lot.QuantityRemaining.IsPositive() {
			continue
		}
		if lot.ExpirationDate == nil || lot.ExpirationDate.After(horizon) {
			continue
		}
		clone := *lot
		clone.OpenAlertTypes = l.openTypes(lot.ID)
		out = append(out, &clone)
	}
	return out, nil
}

func (l *fakeLotLedger) openTypes(lotID string) []entity.AlertType {
	var types []entity.AlertType
	for _, a := range l.store.allAlerts() {
		if a.IsOpen() && a.LotID != nil && *a.LotID == lotID {
			types = append(types, a.Type)
		}
	}
	return types
}

// fakeTxRunner ejecuta el callback directamente sobre el almacén en memoria.
type fakeTxRunner struct {
	store *fakeAlertStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(alerts repository.AlertRepository) error) error {
	return fn(r.store)
}
