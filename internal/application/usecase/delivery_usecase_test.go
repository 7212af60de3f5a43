package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diillson/maternity-reports-go/internal/adapter/driven/memory"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliveryFixture struct {
	store    *memory.Store
	renderer *fakeRenderer
	storage  *fakeStorage
	notifier *fakeNotifier
	uc       *DeliveryUseCase
}

func newDeliveryFixture(t *testing.T, now time.Time) *deliveryFixture {
	t.Helper()
	log, _ := newTestLogger()
	f := &deliveryFixture{
		store:    memory.NewStore(),
		renderer: &fakeRenderer{},
		storage:  &fakeStorage{},
		notifier: &fakeNotifier{},
	}
	f.store.AddCenter(entity.Center{ID: "c1", Name: "Maternité Centrale", Email: "c1@example.test"})
	f.uc = NewDeliveryUseCase(f.store, f.renderer, f.storage, f.notifier, DeliveryOptions{}, fixedClock(now), log)
	return f
}

func seedDeliveries(store *memory.Store) {
	store.AddDelivery(entity.Delivery{ID: "a1", CenterID: "c1", DeliveredAt: feb(1, 0), Mode: "Voie basse"},
		entity.Child{ID: "k1", Sex: "Masculin"})
	store.AddDelivery(entity.Delivery{ID: "a2", CenterID: "c1", DeliveredAt: feb(14, 12), Mode: "voie basse"},
		entity.Child{ID: "k2", Sex: "Féminin"})
	store.AddDelivery(entity.Delivery{ID: "a3", CenterID: "c1", DeliveredAt: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), Mode: "Césarienne"},
		entity.Child{ID: "k3", Sex: "Féminin"})
}

func TestDeliver_DeliveryReport(t *testing.T) {
	f := newDeliveryFixture(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	seedDeliveries(f.store)

	res := f.uc.Deliver(context.Background(), entity.DeliverRequest{
		Type: entity.ReportDelivery, PeriodLabel: "février", Year: 2024, CenterID: "c1",
	})
	require.True(t, res.Success, res.Error)
	assert.Regexp(t, `^RPT020324[A-Z0-9]{2}$`, res.ReportID)
	assert.Equal(t, "https://files.example.test/rapports/c1/Delivery_février_2024.pdf", res.DocumentURL)

	require.Len(t, f.storage.uploads, 1)
	assert.Equal(t, "Delivery_février_2024.pdf", f.storage.uploads[0].name)
	assert.Equal(t, "rapports/c1", f.storage.uploads[0].folder)

	reports := f.store.Reports()
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, res.ReportID, r.ID)
	assert.Equal(t, "février", r.Month)
	assert.Equal(t, 2024, r.Year)
	assert.Equal(t, "api", r.GeneratedBy)
	assert.Equal(t, int64(len("%PDF-1.3 fake")), r.SizeBytes)
	require.NotNil(t, r.Summary.Delivery)
	assert.Equal(t, 3, r.Summary.Delivery.TotalDeliveries)
	assert.Equal(t, 2, r.Summary.Delivery.Vaginal)
	assert.Equal(t, 1, r.Summary.Delivery.Cesarean)
	assert.Equal(t, 33, r.Summary.Delivery.CesareanRate)

	require.Len(t, f.notifier.reports, 1)
	assert.Equal(t, r.ID, f.notifier.reports[0].ID)
}

func TestDeliver_FamilyPlanningReport(t *testing.T) {
	f := newDeliveryFixture(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	for i, m := range []string{"Implant", "implant", "Pilule"} {
		f.store.AddFamilyPlanning(entity.FamilyPlanningEntry{
			ID: string(rune('a' + i)), CenterID: "c1", VisitedAt: feb(5, 9), Method: m,
		})
	}

	res := f.uc.Deliver(context.Background(), entity.DeliverRequest{
		Type: entity.ReportFamilyPlanning, PeriodLabel: "fevrier", Year: 2024, CenterID: "c1",
	})
	require.True(t, res.Success, res.Error)

	r := f.store.Reports()[0]
	require.NotNil(t, r.Summary.FamilyPlanning)
	assert.Equal(t, 2, r.Summary.FamilyPlanning.MethodCounts.Implant)
	assert.Equal(t, 1, r.Summary.FamilyPlanning.MethodCounts.Pill)
	assert.Equal(t, "Implant", r.Summary.FamilyPlanning.PopularMethod)
	assert.Equal(t, "février", r.Month)
}

func TestDeliver_UploadFailureWritesNoReport(t *testing.T) {
	f := newDeliveryFixture(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	seedDeliveries(f.store)
	f.storage.err = errors.New("bucket unavailable")

	res := f.uc.Deliver(context.Background(), entity.DeliverRequest{
		Type: entity.ReportDelivery, PeriodLabel: "février", Year: 2024, CenterID: "c1",
	})

	assert.False(t, res.Success)
	assert.Equal(t, "bucket unavailable", res.Error)
	assert.Equal(t, StepUpload, res.FailedStep)
	assert.Equal(t, "upstream", res.ErrorKind)
	assert.Empty(t, res.ReportID)
	assert.Empty(t, f.store.Reports())
	assert.Empty(t, f.notifier.reports)
}

func TestDeliver_RenderFailureStopsBeforeUpload(t *testing.T) {
	f := newDeliveryFixture(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	f.renderer.err = errBoom

	res := f.uc.Deliver(context.Background(), entity.DeliverRequest{
		Type: entity.ReportPrenatalConsultation, PeriodLabel: "février", Year: 2024,
	})

	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)
	assert.Equal(t, StepRender, res.FailedStep)
	assert.Empty(t, f.storage.uploads)
	assert.Empty(t, f.store.Reports())
}

func TestDeliver_Validation(t *testing.T) {
	f := newDeliveryFixture(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))

	cases := map[string]entity.DeliverRequest{
		"missing type":  {PeriodLabel: "février", Year: 2024},
		"unknown type":  {Type: "Vaccination", PeriodLabel: "février", Year: 2024},
		"unknown month": {Type: entity.ReportDelivery, PeriodLabel: "brumaire", Year: 2024},
		"missing year":  {Type: entity.ReportDelivery, PeriodLabel: "février"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			res := f.uc.Deliver(context.Background(), req)
			assert.False(t, res.Success)
			assert.Equal(t, "validation", res.ErrorKind)
			assert.Equal(t, StepValidate, res.FailedStep)
			assert.NotEmpty(t, res.Error)
		})
	}
	assert.Empty(t, f.renderer.calls)
}

func TestDeliver_UnknownCenter(t *testing.T) {
	f := newDeliveryFixture(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))

	res := f.uc.Deliver(context.Background(), entity.DeliverRequest{
		Type: entity.ReportDelivery, PeriodLabel: "février", Year: 2024, CenterID: "nowhere",
	})
	assert.False(t, res.Success)
	assert.Equal(t, "not_found", res.ErrorKind)
	assert.Equal(t, StepCenter, res.FailedStep)
}

func TestDeliver_NotificationFailureIsOnlyLogged(t *testing.T) {
	log, hook := newTestLogger()
	store := memory.NewStore()
	notifier := &fakeNotifier{err: errBoom}
	uc := NewDeliveryUseCase(store, &fakeRenderer{}, &fakeStorage{}, notifier, DeliveryOptions{IDPrefix: "MAT", Folder: "pdf"},
		fixedClock(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)), log)

	res := uc.Deliver(context.Background(), entity.DeliverRequest{
		Type: entity.ReportPrenatalConsultation, PeriodLabel: "2", Year: 2024, GeneratedBy: "cli",
	})
	require.True(t, res.Success, res.Error)
	assert.Regexp(t, `^MAT020324`, res.ReportID)
	assert.Equal(t, "cli", store.Reports()[0].GeneratedBy)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "report notification failed" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestObjectName(t *testing.T) {
	p := entity.Period{Month: time.August, Year: 2025}
	assert.Equal(t, "PrenatalConsultation_août_2025.pdf", ObjectName(entity.ReportPrenatalConsultation, p))
}
