package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
)

// Summarizer agrega os registros de uma janela num resumo de relatório.
type Summarizer interface {
	Summarize(ctx context.Context, w entity.Window, centerID string) (entity.ReportSummary, error)
}

// ratePercent arredonda part/total para o percentual inteiro mais próximo; 0 se total for 0.
func ratePercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// PrenatalAggregator classifica as consultas pré-natais.
type PrenatalAggregator struct {
	records repository.RecordRepository
	now     func() time.Time
}

// NewPrenatalAggregator cria o agregador; now define o "hoje" das consultas pendentes.
func NewPrenatalAggregator(records repository.RecordRepository, now func() time.Time) *PrenatalAggregator {
	if now == nil {
		now = time.Now
	}
	return &PrenatalAggregator{records: records, now: now}
}

// Aggregate conta consultas realizadas, pendentes (hoje), planejadas (futuro) e perdidas.
func (a *PrenatalAggregator) Aggregate(ctx context.Context, w entity.Window, centerID string) (entity.PrenatalSummary, error) {
	var s entity.PrenatalSummary

	consultations, err := a.records.FindConsultations(ctx, w, centerID)
	if err != nil {
		return s, fmt.Errorf("querying consultations: %w", err)
	}

	now := a.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)

	s.TotalConsultations = len(consultations)
	for _, c := range consultations {
		done, err := a.records.HasConsultationDetail(ctx, c.ID)
		if err != nil {
			return s, fmt.Errorf("checking detail of consultation %s: %w", c.ID, err)
		}
		switch {
		case done:
			s.Completed++
		case c.ScheduledAt.Before(todayStart):
			s.Missed++
		case c.ScheduledAt.Before(tomorrow):
			s.Pending++
		default:
			s.Planned++
		}
	}
	s.CompletionRate = ratePercent(s.Completed, s.TotalConsultations)
	return s, nil
}

// Summarize implementa Summarizer.
func (a *PrenatalAggregator) Summarize(ctx context.Context, w entity.Window, centerID string) (entity.ReportSummary, error) {
	s, err := a.Aggregate(ctx, w, centerID)
	if err != nil {
		return entity.ReportSummary{}, err
	}
	return entity.ReportSummary{Prenatal: &s}, nil
}

// DeliveryAggregator classifica os accouchements e conta os recém-nascidos.
type DeliveryAggregator struct {
	records repository.RecordRepository
}

func NewDeliveryAggregator(records repository.RecordRepository) *DeliveryAggregator {
	return &DeliveryAggregator{records: records}
}

// Aggregate faz uma consulta de filhos por accouchement.
func (a *DeliveryAggregator) Aggregate(ctx context.Context, w entity.Window, centerID string) (entity.DeliverySummary, error) {
	var s entity.DeliverySummary

	deliveries, err := a.records.FindDeliveries(ctx, w, centerID)
	if err != nil {
		return s, fmt.Errorf("querying deliveries: %w", err)
	}

	s.TotalDeliveries = len(deliveries)
	for _, d := range deliveries {
		switch entity.ClassifyDeliveryMode(d.Mode) {
		case entity.ModeVaginal:
			s.Vaginal++
		case entity.ModeCesarean:
			s.Cesarean++
		default:
			s.OtherMode++
		}

		children, err := a.records.FindChildren(ctx, d.ID)
		if err != nil {
			return s, fmt.Errorf("querying children of delivery %s: %w", d.ID, err)
		}
		s.TotalChildren += len(children)
		for _, c := range children {
			switch entity.ClassifySex(c.Sex) {
			case entity.SexMale:
				s.Boys++
			case entity.SexFemale:
				s.Girls++
			default:
				s.UnknownSex++
			}
		}
	}

	s.CesareanRate = ratePercent(s.Cesarean, s.TotalDeliveries)
	if s.TotalDeliveries > 0 {
		s.ChildrenPerDelivery = math.Round(float64(s.TotalChildren)/float64(s.TotalDeliveries)*100) / 100
	}
	return s, nil
}

// Summarize implementa Summarizer.
func (a *DeliveryAggregator) Summarize(ctx context.Context, w entity.Window, centerID string) (entity.ReportSummary, error) {
	s, err := a.Aggregate(ctx, w, centerID)
	if err != nil {
		return entity.ReportSummary{}, err
	}
	return entity.ReportSummary{Delivery: &s}, nil
}

// NoPopularMethod é exibido quando não há nenhuma visita no período.
const NoPopularMethod = "Aucune"

// FamilyPlanningAggregator conta as visitas por método e por sexo.
type FamilyPlanningAggregator struct {
	records repository.RecordRepository
}

func NewFamilyPlanningAggregator(records repository.RecordRepository) *FamilyPlanningAggregator {
	return &FamilyPlanningAggregator{records: records}
}

// Aggregate preenche methodesCount e escolhe o método mais popular: o
// primeiro balde, na ordem de entity.OrderedMethods, com a maior contagem.
func (a *FamilyPlanningAggregator) Aggregate(ctx context.Context, w entity.Window, centerID string) (entity.FamilyPlanningSummary, error) {
	s := entity.FamilyPlanningSummary{PopularMethod: NoPopularMethod}

	entries, err := a.records.FindFamilyPlanning(ctx, w, centerID)
	if err != nil {
		return s, fmt.Errorf("querying family planning visits: %w", err)
	}

	s.TotalVisits = len(entries)
	for _, e := range entries {
		s.MethodCounts.Add(entity.ClassifyMethod(e.Method))
		switch entity.ClassifySex(e.Sex) {
		case entity.SexFemale:
			s.Women++
		case entity.SexMale:
			s.Men++
		default:
			s.UnknownSex++
		}
	}

	best := 0
	for _, m := range entity.OrderedMethods {
		if c := s.MethodCounts.Count(m); c > best {
			best = c
			s.PopularMethod = m.Label()
		}
	}
	return s, nil
}

// Summarize implementa Summarizer.
func (a *FamilyPlanningAggregator) Summarize(ctx context.Context, w entity.Window, centerID string) (entity.ReportSummary, error) {
	s, err := a.Aggregate(ctx, w, centerID)
	if err != nil {
		return entity.ReportSummary{}, err
	}
	return entity.ReportSummary{FamilyPlanning: &s}, nil
}
