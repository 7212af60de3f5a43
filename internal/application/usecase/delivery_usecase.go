package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Etapas do pipeline, reportadas em DeliverResult.FailedStep.
const (
	StepValidate  = "validate"
	StepCenter    = "center"
	StepIdentify  = "identifier"
	StepAggregate = "aggregate"
	StepRender    = "render"
	StepUpload    = "upload"
	StepPersist   = "persist"
)

// DeliveryOptions parametriza o pipeline de entrega.
type DeliveryOptions struct {
	Location *time.Location
	IDPrefix string
	Folder   string
}

// DeliveryUseCase gera, publica e registra um relatório mensal.
type DeliveryUseCase struct {
	ids         *IdentifierGenerator
	summarizers map[entity.ReportType]Summarizer
	renderer    repository.ReportRenderer
	storage     repository.StorageRepository
	reports     repository.ReportRepository
	centers     repository.CenterRepository
	notifier    repository.Notifier
	validate    *validator.Validate
	opts        DeliveryOptions
	now         func() time.Time
	log         logrus.FieldLogger
}

// NewDeliveryUseCase cria o pipeline. notifier pode ser nil.
func NewDeliveryUseCase(
	store repository.Store,
	renderer repository.ReportRenderer,
	storage repository.StorageRepository,
	notifier repository.Notifier,
	opts DeliveryOptions,
	now func() time.Time,
	log logrus.FieldLogger,
) *DeliveryUseCase {
	if now == nil {
		now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = "RPT"
	}
	if opts.Folder == "" {
		opts.Folder = "rapports"
	}
	clock := func() time.Time { return now().In(opts.Location) }

	return &DeliveryUseCase{
		ids: NewIdentifierGenerator(store, clock, log),
		summarizers: map[entity.ReportType]Summarizer{
			entity.ReportPrenatalConsultation: NewPrenatalAggregator(store, clock),
			entity.ReportDelivery:             NewDeliveryAggregator(store),
			entity.ReportFamilyPlanning:       NewFamilyPlanningAggregator(store),
		},
		renderer: renderer,
		storage:  storage,
		reports:  store,
		centers:  store,
		notifier: notifier,
		validate: validator.New(),
		opts:     opts,
		now:      clock,
		log:      log,
	}
}

// Deliver executa o pipeline completo. Nunca retorna erro: a falha de
// qualquer etapa interrompe as seguintes e vai no resultado.
func (uc *DeliveryUseCase) Deliver(ctx context.Context, req entity.DeliverRequest) entity.DeliverResult {
	log := uc.log.WithFields(logrus.Fields{
		"type":     req.Type,
		"period":   req.PeriodLabel,
		"year":     req.Year,
		"centerId": req.CenterID,
	})

	report, err := uc.deliver(ctx, req)
	if err != nil {
		result := entity.DeliverResult{
			Success:   false,
			Error:     err.Error(),
			ErrorKind: types.KindOf(err),
		}
		var stepErr *types.StepError
		if errors.As(err, &stepErr) {
			result.FailedStep = stepErr.Step
		}
		log.WithError(err).WithField("step", result.FailedStep).Error("report delivery failed")
		return result
	}

	log.WithFields(logrus.Fields{
		"reportId": report.ID,
		"url":      report.DocumentURL,
		"size":     report.SizeBytes,
	}).Info("report delivered")

	return entity.DeliverResult{
		Success:     true,
		ReportID:    report.ID,
		DocumentURL: report.DocumentURL,
	}
}

func (uc *DeliveryUseCase) deliver(ctx context.Context, req entity.DeliverRequest) (*entity.Report, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, types.NewStepError(StepValidate, types.ErrValidation, err)
	}
	summarizer, ok := uc.summarizers[req.Type]
	if !ok {
		return nil, types.NewStepError(StepValidate, types.ErrValidation, fmt.Errorf("unsupported report type %q", req.Type))
	}
	period, err := entity.ParsePeriod(req.PeriodLabel, req.Year)
	if err != nil {
		return nil, types.NewStepError(StepValidate, types.ErrValidation, err)
	}

	var center *entity.Center
	if req.CenterID != "" {
		center, err = uc.centers.GetCenter(ctx, req.CenterID)
		if err != nil {
			kind := types.ErrUpstream
			if errors.Is(err, types.ErrNotFound) {
				kind = types.ErrNotFound
			}
			return nil, types.NewStepError(StepCenter, kind, err)
		}
	}

	// 1. identificador
	id, err := uc.ids.Generate(ctx, uc.opts.IDPrefix, repository.CollectionReports)
	if err != nil {
		return nil, types.NewStepError(StepIdentify, types.ErrUpstream, err)
	}

	// 2. janela do mês
	window := period.Window(uc.opts.Location)

	// 3. agregação
	summary, err := summarizer.Summarize(ctx, window, req.CenterID)
	if err != nil {
		return nil, types.NewStepError(StepAggregate, types.ErrUpstream, err)
	}

	// 4. PDF
	pdfBytes, err := uc.renderer.Render(summary, req.Type, period.Label(), period.Year)
	if err != nil {
		return nil, types.NewStepError(StepRender, types.ErrUpstream, err)
	}

	// 5. upload
	stored, err := uc.storage.Upload(ctx, pdfBytes, ObjectName(req.Type, period), uc.folderFor(req.CenterID))
	if err != nil {
		return nil, types.NewStepError(StepUpload, types.ErrUpstream, err)
	}

	// 6. registro
	generatedBy := req.GeneratedBy
	if generatedBy == "" {
		generatedBy = "api"
	}
	report := entity.Report{
		ID:              id,
		Type:            req.Type,
		Month:           period.Label(),
		Year:            period.Year,
		CenterID:        req.CenterID,
		Summary:         summary,
		DocumentURL:     stored.URL,
		StorageObjectID: stored.ObjectID,
		SizeBytes:       stored.Size,
		CreatedAt:       uc.now(),
		GeneratedBy:     generatedBy,
	}
	if err := uc.reports.CreateReport(ctx, report); err != nil {
		return nil, types.NewStepError(StepPersist, types.ErrUpstream, err)
	}

	uc.notify(ctx, center, report)
	return &report, nil
}

func (uc *DeliveryUseCase) notify(ctx context.Context, center *entity.Center, report entity.Report) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyReport(ctx, center, report); err != nil {
		uc.log.WithError(err).WithField("reportId", report.ID).Warn("report notification failed")
	}
}

// folderFor separa os objetos por centro, já que o nome do arquivo não contém o centro.
func (uc *DeliveryUseCase) folderFor(centerID string) string {
	if centerID == "" {
		return uc.opts.Folder
	}
	return uc.opts.Folder + "/" + centerID
}

// ObjectName é o nome determinístico do PDF: {tipo}_{mês}_{ano}.pdf.
func ObjectName(t entity.ReportType, p entity.Period) string {
	return fmt.Sprintf("%s_%s_%d.pdf", t, p.Label(), p.Year)
}
