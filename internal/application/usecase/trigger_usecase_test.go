package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diillson/maternity-reports-go/internal/adapter/driven/memory"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2024 = time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)

func newTriggerFixture(t *testing.T, concurrency int) (*memory.Store, *TriggerUseCase, *fakeRecorder) {
	t.Helper()
	log, _ := newTestLogger()
	store := memory.NewStore()
	delivery := NewDeliveryUseCase(store, &fakeRenderer{}, &fakeStorage{}, nil, DeliveryOptions{}, fixedClock(march2024), log)
	recorder := &fakeRecorder{}
	uc := NewTriggerUseCase(store, store, delivery, recorder, TriggerOptions{Concurrency: concurrency}, fixedClock(march2024), log)
	return store, uc, recorder
}

func TestTrigger_OnlyMissingTypesAreGenerated(t *testing.T) {
	store, uc, recorder := newTriggerFixture(t, 1)
	store.AddCenter(entity.Center{ID: "A"})
	store.AddCenter(entity.Center{ID: "B"})
	for i, typ := range entity.AllReportTypes {
		require.NoError(t, store.CreateReport(context.Background(), entity.Report{
			ID: fmt.Sprintf("existing-%d", i), Type: typ, Month: "février", Year: 2024, CenterID: "A",
		}))
	}

	res := uc.Run(context.Background(), entity.TriggerRequest{})

	assert.True(t, res.Success)
	assert.Equal(t, "février", res.Month)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, 3, res.TotalAttempted)
	assert.Equal(t, 3, res.GeneratedCount)
	assert.Equal(t, 1, res.SkippedCenters)
	require.Len(t, res.Results, 3)
	for i, tr := range res.Results {
		assert.Equal(t, "B", tr.CenterID)
		assert.Equal(t, entity.AllReportTypes[i], tr.Type)
		assert.Equal(t, entity.TaskGenerated, tr.State)
		assert.NotEmpty(t, tr.ReportID)
	}

	created, err := store.FindReports(context.Background(), "B", "février", 2024)
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Contains(t, created[0].GeneratedBy, "trigger:"+res.RunID)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, res.RunID, recorder.runs[0].RunID)
	assert.False(t, recorder.runs[0].FinishedAt.IsZero())
}

func TestTrigger_SecondRunIsIdempotent(t *testing.T) {
	store, uc, _ := newTriggerFixture(t, 1)
	store.AddCenter(entity.Center{ID: "A"})
	store.AddCenter(entity.Center{ID: "B"})

	first := uc.Run(context.Background(), entity.TriggerRequest{})
	require.Equal(t, 6, first.GeneratedCount)

	second := uc.Run(context.Background(), entity.TriggerRequest{})
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.TotalAttempted)
	assert.Equal(t, 0, second.GeneratedCount)
	assert.Equal(t, 2, second.SkippedCenters)
	assert.Len(t, store.Reports(), 6)
}

func TestTrigger_FailureDoesNotAbortSiblings(t *testing.T) {
	log, _ := newTestLogger()
	store := memory.NewStore()
	store.AddCenter(entity.Center{ID: "A"})
	store.AddCenter(entity.Center{ID: "B"})

	deliverer := delivererFunc(func(_ context.Context, req entity.DeliverRequest) entity.DeliverResult {
		if req.CenterID == "A" && req.Type == entity.ReportDelivery {
			return entity.DeliverResult{Error: "bucket unavailable"}
		}
		return entity.DeliverResult{Success: true, ReportID: req.CenterID + string(req.Type)}
	})
	uc := NewTriggerUseCase(store, store, deliverer, nil, TriggerOptions{}, fixedClock(march2024), log)

	res := uc.Run(context.Background(), entity.TriggerRequest{Month: "janvier", Year: 2024})

	assert.True(t, res.Success)
	assert.Equal(t, "janvier", res.Month)
	assert.Equal(t, 6, res.TotalAttempted)
	assert.Equal(t, 5, res.GeneratedCount)
	require.Len(t, res.Results, 6)
	failed := res.Results[1]
	assert.Equal(t, "A", failed.CenterID)
	assert.Equal(t, entity.ReportDelivery, failed.Type)
	assert.Equal(t, entity.TaskFailed, failed.State)
	assert.Equal(t, "bucket unavailable", failed.Error)
	assert.True(t, res.Results[2].Success)
}

func TestTrigger_PanicInDelivererIsContained(t *testing.T) {
	log, _ := newTestLogger()
	store := memory.NewStore()
	store.AddCenter(entity.Center{ID: "A"})
	store.AddCenter(entity.Center{ID: "B"})

	deliverer := delivererFunc(func(_ context.Context, req entity.DeliverRequest) entity.DeliverResult {
		if req.CenterID == "A" {
			panic("nil summary")
		}
		return entity.DeliverResult{Success: true}
	})
	uc := NewTriggerUseCase(store, store, deliverer, nil, TriggerOptions{Concurrency: 2}, fixedClock(march2024), log)

	res := uc.Run(context.Background(), entity.TriggerRequest{})

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.GeneratedCount)
	var panicked bool
	for _, tr := range res.Results {
		if tr.CenterID == "A" {
			panicked = true
			assert.Equal(t, entity.TaskFailed, tr.State)
			assert.Contains(t, tr.Error, "nil summary")
		}
	}
	assert.True(t, panicked)
}

func TestTrigger_BoundedConcurrency(t *testing.T) {
	log, _ := newTestLogger()
	store := memory.NewStore()
	for i := 0; i < 8; i++ {
		store.AddCenter(entity.Center{ID: fmt.Sprintf("C%d", i)})
	}

	var inFlight, peak, calls int32
	deliverer := delivererFunc(func(context.Context, entity.DeliverRequest) entity.DeliverResult {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&calls, 1)
		return entity.DeliverResult{Success: true}
	})
	uc := NewTriggerUseCase(store, store, deliverer, nil, TriggerOptions{Concurrency: 3}, fixedClock(march2024), log)

	res := uc.Run(context.Background(), entity.TriggerRequest{})

	assert.Equal(t, int32(24), atomic.LoadInt32(&calls))
	assert.Equal(t, 24, res.GeneratedCount)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	for i := 0; i < 8; i++ {
		assert.Equal(t, fmt.Sprintf("C%d", i), res.Results[i*3].CenterID)
	}
}

func TestTrigger_InvalidRequests(t *testing.T) {
	store, uc, recorder := newTriggerFixture(t, 1)
	store.AddCenter(entity.Center{ID: "A"})

	res := uc.Run(context.Background(), entity.TriggerRequest{Year: 2024})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "year given without month")
	assert.Equal(t, "validation", res.ErrorKind)

	res = uc.Run(context.Background(), entity.TriggerRequest{Month: "brumaire"})
	assert.False(t, res.Success)
	assert.Equal(t, "validation", res.ErrorKind)

	res = uc.Run(context.Background(), entity.TriggerRequest{CenterIDs: []string{"ghost"}})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "ghost")
	assert.Equal(t, "not_found", res.ErrorKind)

	assert.Len(t, recorder.runs, 3)
	assert.Empty(t, store.Reports())
}

func TestTrigger_SelectedCentersAndDefaultYear(t *testing.T) {
	store, uc, _ := newTriggerFixture(t, 1)
	store.AddCenter(entity.Center{ID: "A"})
	store.AddCenter(entity.Center{ID: "B"})

	res := uc.Run(context.Background(), entity.TriggerRequest{Month: "mars", CenterIDs: []string{"B"}, Source: "manual"})

	assert.True(t, res.Success)
	assert.Equal(t, "mars", res.Month)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, 3, res.GeneratedCount)
	for _, r := range store.Reports() {
		assert.Equal(t, "B", r.CenterID)
		assert.Contains(t, r.GeneratedBy, "manual:")
	}
}

func TestTrigger_RepeatedCenterIDsRunOnce(t *testing.T) {
	store, uc, _ := newTriggerFixture(t, 4)
	store.AddCenter(entity.Center{ID: "c1"})

	res := uc.Run(context.Background(), entity.TriggerRequest{CenterIDs: []string{"c1", "c1", " c1 ", ""}})

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalAttempted)
	assert.Equal(t, 3, res.GeneratedCount)
	assert.Len(t, store.Reports(), 3)
	require.Len(t, res.Results, 3)
	for _, tr := range res.Results {
		assert.Equal(t, "c1", tr.CenterID)
	}
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"c1", "c2"}, uniqueIDs([]string{" c1", "c2", "", "c1 ", "c2"}))
	assert.Empty(t, uniqueIDs([]string{" ", ""}))
}

func TestMissingTypes(t *testing.T) {
	assert.Equal(t, entity.AllReportTypes, MissingTypes(nil))
	assert.Equal(t,
		[]entity.ReportType{entity.ReportPrenatalConsultation, entity.ReportFamilyPlanning},
		MissingTypes([]entity.Report{{Type: entity.ReportDelivery}}))
	assert.Empty(t, MissingTypes([]entity.Report{
		{Type: entity.ReportFamilyPlanning}, {Type: entity.ReportDelivery}, {Type: entity.ReportPrenatalConsultation},
	}))
}
