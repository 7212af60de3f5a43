// Package memory implementa o Store em memória, para desenvolvimento e testes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
)

// Store guarda todas as coleções em mapas protegidos por um mutex.
type Store struct {
	mu            sync.RWMutex
	centers       []entity.Center
	consultations []entity.Consultation
	details       map[string]bool
	deliveries    []entity.Delivery
	children      map[string][]entity.Child
	fpEntries     []entity.FamilyPlanningEntry
	reports       map[string]entity.Report
	reportOrder   []string
	extraKeys     map[string]map[string]bool
}

var _ repository.Store = (*Store)(nil)

// NewStore cria um Store vazio.
func NewStore() *Store {
	return &Store{
		details:   make(map[string]bool),
		children:  make(map[string][]entity.Child),
		reports:   make(map[string]entity.Report),
		extraKeys: make(map[string]map[string]bool),
	}
}

func (s *Store) AddCenter(c entity.Center) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centers = append(s.centers, c)
}

func (s *Store) AddConsultation(c entity.Consultation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consultations = append(s.consultations, c)
}

// AddConsultationDetail marca a consulta como realizada.
func (s *Store) AddConsultationDetail(d entity.ConsultationDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[d.ConsultationID] = true
}

func (s *Store) AddDelivery(d entity.Delivery, children ...entity.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, d)
	for _, c := range children {
		c.DeliveryID = d.ID
		s.children[d.ID] = append(s.children[d.ID], c)
	}
}

func (s *Store) AddFamilyPlanning(e entity.FamilyPlanningEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fpEntries = append(s.fpEntries, e)
}

// ReserveKey registra uma chave ocupada numa coleção qualquer.
func (s *Store) ReserveKey(collection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extraKeys[collection] == nil {
		s.extraKeys[collection] = make(map[string]bool)
	}
	s.extraKeys[collection][id] = true
}

// Reports devolve os relatórios na ordem de criação.
func (s *Store) Reports() []entity.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Report, 0, len(s.reportOrder))
	for _, id := range s.reportOrder {
		out = append(out, s.reports[id])
	}
	return out
}

func matchCenter(want, got string) bool {
	return want == "" || want == got
}

func (s *Store) FindConsultations(_ context.Context, w entity.Window, centerID string) ([]entity.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Consultation
	for _, c := range s.consultations {
		if w.Contains(c.ScheduledAt) && matchCenter(centerID, c.CenterID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) HasConsultationDetail(_ context.Context, consultationID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.details[consultationID], nil
}

func (s *Store) FindDeliveries(_ context.Context, w entity.Window, centerID string) ([]entity.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Delivery
	for _, d := range s.deliveries {
		if w.Contains(d.DeliveredAt) && matchCenter(centerID, d.CenterID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) FindChildren(_ context.Context, deliveryID string) ([]entity.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Child(nil), s.children[deliveryID]...), nil
}

func (s *Store) FindFamilyPlanning(_ context.Context, w entity.Window, centerID string) ([]entity.FamilyPlanningEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.FamilyPlanningEntry
	for _, e := range s.fpEntries {
		if w.Contains(e.VisitedAt) && matchCenter(centerID, e.CenterID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateReport(_ context.Context, r entity.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[r.ID]; ok {
		return fmt.Errorf("report %s already exists", r.ID)
	}
	s.reports[r.ID] = r
	s.reportOrder = append(s.reportOrder, r.ID)
	return nil
}

func (s *Store) GetReport(_ context.Context, id string) (*entity.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, types.ErrNotFound)
	}
	return &r, nil
}

// FindReports filtra por centro, mês e ano; campos vazios/zero não filtram.
func (s *Store) FindReports(_ context.Context, centerID, month string, year int) ([]entity.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Report
	for _, id := range s.reportOrder {
		r := s.reports[id]
		if centerID != "" && r.CenterID != centerID {
			continue
		}
		if month != "" && r.Month != month {
			continue
		}
		if year != 0 && r.Year != year {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) ListCenters(_ context.Context) ([]entity.Center, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]entity.Center(nil), s.centers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetCenter(_ context.Context, id string) (*entity.Center, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.centers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("center %s: %w", id, types.ErrNotFound)
}

func (s *Store) IdentifierExists(_ context.Context, collection, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.extraKeys[collection][id] {
		return true, nil
	}
	if collection == repository.CollectionReports {
		_, ok := s.reports[id]
		return ok, nil
	}
	return false, nil
}

func (s *Store) Close(context.Context) error { return nil }
