package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TriggerUseCase gera, para cada centro, os relatórios que ainda faltam no período.
type TriggerUseCase struct {
	centers     repository.CenterRepository
	reports     repository.ReportRepository
	deliverer   repository.Deliverer
	recorder    repository.RunRecorder
	concurrency int
	loc         *time.Location
	now         func() time.Time
	newRunID    func() string
	log         logrus.FieldLogger
}

// TriggerOptions parametriza o gatilho.
type TriggerOptions struct {
	Concurrency int
	Location    *time.Location
}

// NewTriggerUseCase cria o gatilho. recorder pode ser nil.
func NewTriggerUseCase(
	centers repository.CenterRepository,
	reports repository.ReportRepository,
	deliverer repository.Deliverer,
	recorder repository.RunRecorder,
	opts TriggerOptions,
	now func() time.Time,
	log logrus.FieldLogger,
) *TriggerUseCase {
	if now == nil {
		now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &TriggerUseCase{
		centers:     centers,
		reports:     reports,
		deliverer:   deliverer,
		recorder:    recorder,
		concurrency: opts.Concurrency,
		loc:         opts.Location,
		now:         now,
		newRunID:    uuid.NewString,
		log:         log,
	}
}

// Run executa uma passagem completa. Falhas de um par (centro, tipo) são
// registradas e não interrompem os demais; Success só é falso quando a
// própria execução não pôde acontecer (período inválido, centros ilegíveis).
func (uc *TriggerUseCase) Run(ctx context.Context, req entity.TriggerRequest) (result entity.TriggerResult) {
	result = entity.TriggerResult{
		RunID:     uc.newRunID(),
		StartedAt: uc.now(),
		Results:   []entity.TaskResult{},
	}
	log := uc.log.WithFields(logrus.Fields{"runId": result.RunID, "source": req.Source})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("trigger run panicked")
			result.Success = false
			result.Error = fmt.Sprintf("internal error: %v", r)
			result.ErrorKind = types.KindOf(types.ErrUpstream)
		}
		result.FinishedAt = uc.now()
		uc.record(ctx, result, log)
	}()

	period, err := ResolvePeriod(req.Month, req.Year, uc.now().In(uc.loc))
	if err != nil {
		result.Error = err.Error()
		result.ErrorKind = types.KindOf(err)
		log.WithError(err).Warn("invalid trigger period")
		return result
	}
	result.Month = period.Label()
	result.Year = period.Year
	log = log.WithField("period", period.String())

	centers, err := uc.resolveCenters(ctx, req.CenterIDs)
	if err != nil {
		result.Error = err.Error()
		result.ErrorKind = types.KindOf(err)
		log.WithError(err).Error("could not list centers")
		return result
	}

	generatedBy := req.Source
	if generatedBy == "" {
		generatedBy = "trigger"
	}
	generatedBy = generatedBy + ":" + result.RunID

	perCenter := make([][]entity.TaskResult, len(centers))
	skipped := make([]bool, len(centers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, c := range centers {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logrus.Fields{"centerId": c.ID, "panic": r}).Error("center processing panicked")
					perCenter[i] = append(perCenter[i], entity.TaskResult{
						CenterID: c.ID,
						State:    entity.TaskFailed,
						Error:    fmt.Sprintf("internal error: %v", r),
					})
				}
			}()
			perCenter[i], skipped[i] = uc.processCenter(gctx, c, period, generatedBy, log)
			return nil
		})
	}
	_ = g.Wait()

	for i := range centers {
		if skipped[i] {
			result.SkippedCenters++
		}
		for _, tr := range perCenter[i] {
			if tr.Type != "" && (tr.State == entity.TaskGenerated || tr.State == entity.TaskFailed) {
				result.TotalAttempted++
			}
			if tr.Success {
				result.GeneratedCount++
			}
			result.Results = append(result.Results, tr)
		}
	}
	result.Success = true

	log.WithFields(logrus.Fields{
		"generated": result.GeneratedCount,
		"attempted": result.TotalAttempted,
		"skipped":   result.SkippedCenters,
	}).Info("trigger run finished")
	return result
}

// MissingTypes devolve, na ordem de entity.AllReportTypes, os tipos sem relatório.
func MissingTypes(existing []entity.Report) []entity.ReportType {
	have := make(map[entity.ReportType]bool, len(existing))
	for _, r := range existing {
		have[r.Type] = true
	}
	var missing []entity.ReportType
	for _, t := range entity.AllReportTypes {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

func (uc *TriggerUseCase) processCenter(ctx context.Context, c entity.Center, period entity.Period, generatedBy string, log logrus.FieldLogger) ([]entity.TaskResult, bool) {
	log = log.WithField("centerId", c.ID)

	existing, err := uc.reports.FindReports(ctx, c.ID, period.Label(), period.Year)
	if err != nil {
		log.WithError(err).Error("could not read existing reports")
		return []entity.TaskResult{{
			CenterID: c.ID,
			State:    entity.TaskFailed,
			Error:    err.Error(),
		}}, false
	}

	missing := MissingTypes(existing)
	if len(missing) == 0 {
		log.Debug("all reports already generated, skipping center")
		return nil, true
	}

	results := make([]entity.TaskResult, 0, len(missing))
	for _, t := range missing {
		task := entity.TaskResult{CenterID: c.ID, Type: t, State: entity.TaskGenerating}
		log.WithField("type", t).Debug("generating report")

		res := uc.deliverer.Deliver(ctx, entity.DeliverRequest{
			Type:        t,
			PeriodLabel: period.Label(),
			Year:        period.Year,
			CenterID:    c.ID,
			GeneratedBy: generatedBy,
		})
		if res.Success {
			task.State = entity.TaskGenerated
			task.Success = true
			task.ReportID = res.ReportID
			task.DocumentURL = res.DocumentURL
		} else {
			task.State = entity.TaskFailed
			task.Error = res.Error
		}
		results = append(results, task)
	}
	return results, false
}

// ResolvePeriod interpreta mês e ano de uma requisição: sem mês, vale o mês
// anterior a now; mês sem ano usa o ano de now.
func ResolvePeriod(month string, year int, now time.Time) (entity.Period, error) {
	if month == "" {
		if year != 0 {
			return entity.Period{}, fmt.Errorf("%w: year given without month", types.ErrValidation)
		}
		return entity.PreviousMonth(now), nil
	}
	if year == 0 {
		year = now.Year()
	}
	p, err := entity.ParsePeriod(month, year)
	if err != nil {
		return entity.Period{}, fmt.Errorf("%w: %v", types.ErrValidation, err)
	}
	return p, nil
}

// resolveCenters carrega cada centro uma única vez: um ID repetido geraria
// duas goroutines concorrentes para o mesmo centro.
func (uc *TriggerUseCase) resolveCenters(ctx context.Context, ids []string) ([]entity.Center, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		centers, err := uc.centers.ListCenters(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing centers: %w", err)
		}
		return centers, nil
	}

	centers := make([]entity.Center, 0, len(ids))
	for _, id := range ids {
		c, err := uc.centers.GetCenter(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading center %s: %w", id, err)
		}
		centers = append(centers, *c)
	}
	return centers, nil
}

// uniqueIDs remove espaços, vazios e repetidos, mantendo a ordem.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (uc *TriggerUseCase) record(ctx context.Context, result entity.TriggerResult, log logrus.FieldLogger) {
	if uc.recorder == nil {
		return
	}
	if err := uc.recorder.RecordRun(ctx, result); err != nil {
		log.WithError(err).Warn("could not record trigger run")
	}
}
