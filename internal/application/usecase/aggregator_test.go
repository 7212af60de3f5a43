package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/diillson/maternity-reports-go/internal/adapter/driven/memory"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var february2024 = entity.Period{Month: time.February, Year: 2024}.Window(time.UTC)

func TestRatePercent(t *testing.T) {
	assert.Equal(t, 0, ratePercent(0, 0))
	assert.Equal(t, 0, ratePercent(5, 0))
	assert.Equal(t, 33, ratePercent(1, 3))
	assert.Equal(t, 67, ratePercent(2, 3))
	assert.Equal(t, 100, ratePercent(4, 4))
}

func TestPrenatalAggregator_Classification(t *testing.T) {
	store := memory.NewStore()
	for _, c := range []entity.Consultation{
		{ID: "done-early", CenterID: "c1", ScheduledAt: feb(3, 9)},
		{ID: "missed", CenterID: "c1", ScheduledAt: feb(3, 10)},
		{ID: "today", CenterID: "c1", ScheduledAt: feb(15, 9)},
		{ID: "later", CenterID: "c1", ScheduledAt: feb(20, 9)},
		{ID: "done-late", CenterID: "c1", ScheduledAt: feb(25, 9)},
		{ID: "other-center", CenterID: "c2", ScheduledAt: feb(10, 9)},
		{ID: "march", CenterID: "c1", ScheduledAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	} {
		store.AddConsultation(c)
	}
	store.AddConsultationDetail(entity.ConsultationDetail{ID: "d1", ConsultationID: "done-early"})
	store.AddConsultationDetail(entity.ConsultationDetail{ID: "d2", ConsultationID: "done-late"})

	agg := NewPrenatalAggregator(store, fixedClock(feb(15, 12)))
	s, err := agg.Aggregate(context.Background(), february2024, "c1")
	require.NoError(t, err)

	assert.Equal(t, 5, s.TotalConsultations)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Missed)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Planned)
	assert.Equal(t, 40, s.CompletionRate)
	assert.Equal(t, s.TotalConsultations, s.Completed+s.Missed+s.Pending+s.Planned)

	all, err := agg.Aggregate(context.Background(), february2024, "")
	require.NoError(t, err)
	assert.Equal(t, 6, all.TotalConsultations)
}

func TestDeliveryAggregator_ModesAndChildren(t *testing.T) {
	store := memory.NewStore()
	store.AddDelivery(entity.Delivery{ID: "a1", CenterID: "c1", DeliveredAt: feb(2, 4), Mode: "Voie basse"},
		entity.Child{ID: "k1", Sex: "Masculin"})
	store.AddDelivery(entity.Delivery{ID: "a2", CenterID: "c1", DeliveredAt: feb(9, 4), Mode: "accouchement naturel"},
		entity.Child{ID: "k2", Sex: "Féminin"}, entity.Child{ID: "k3", Sex: "feminin"})
	store.AddDelivery(entity.Delivery{ID: "a3", CenterID: "c1", DeliveredAt: feb(29, 23), Mode: "CÉSARIENNE"},
		entity.Child{ID: "k4", Sex: ""})

	s, err := NewDeliveryAggregator(store).Aggregate(context.Background(), february2024, "c1")
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalDeliveries)
	assert.Equal(t, 2, s.Vaginal)
	assert.Equal(t, 1, s.Cesarean)
	assert.Equal(t, 0, s.OtherMode)
	assert.Equal(t, 33, s.CesareanRate)
	assert.Equal(t, 4, s.TotalChildren)
	assert.Equal(t, 1, s.Boys)
	assert.Equal(t, 2, s.Girls)
	assert.Equal(t, 1, s.UnknownSex)
	assert.Equal(t, 1.33, s.ChildrenPerDelivery)
}

func TestFamilyPlanningAggregator_PopularMethod(t *testing.T) {
	store := memory.NewStore()
	for i, m := range []string{"Implant", "implant", "Pilule"} {
		store.AddFamilyPlanning(entity.FamilyPlanningEntry{
			ID: string(rune('a' + i)), CenterID: "c1", VisitedAt: feb(10+i, 9), Method: m, Sex: "Féminin",
		})
	}

	s, err := NewFamilyPlanningAggregator(store).Aggregate(context.Background(), february2024, "c1")
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalVisits)
	assert.Equal(t, 2, s.MethodCounts.Implant)
	assert.Equal(t, 1, s.MethodCounts.Pill)
	assert.Equal(t, 0, s.MethodCounts.Other)
	assert.Equal(t, "Implant", s.PopularMethod)
	assert.Equal(t, 3, s.Women)
}

func TestFamilyPlanningAggregator_TieKeepsBucketOrder(t *testing.T) {
	store := memory.NewStore()
	store.AddFamilyPlanning(entity.FamilyPlanningEntry{ID: "1", VisitedAt: feb(1, 9), Method: "Préservatif", Sex: "M"})
	store.AddFamilyPlanning(entity.FamilyPlanningEntry{ID: "2", VisitedAt: feb(2, 9), Method: "DIU", Sex: "F"})
	store.AddFamilyPlanning(entity.FamilyPlanningEntry{ID: "3", VisitedAt: feb(3, 9), Method: "", Sex: ""})

	s, err := NewFamilyPlanningAggregator(store).Aggregate(context.Background(), february2024, "")
	require.NoError(t, err)

	assert.Equal(t, 1, s.MethodCounts.IUD)
	assert.Equal(t, 1, s.MethodCounts.Condom)
	assert.Equal(t, 1, s.MethodCounts.Other)
	assert.Equal(t, "DIU", s.PopularMethod)
	assert.Equal(t, 1, s.Men)
	assert.Equal(t, 1, s.Women)
	assert.Equal(t, 1, s.UnknownSex)
}

func TestAggregators_EmptyWindow(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	p, err := NewPrenatalAggregator(store, fixedClock(feb(15, 12))).Aggregate(ctx, february2024, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PrenatalSummary{}, p)

	d, err := NewDeliveryAggregator(store).Aggregate(ctx, february2024, "")
	require.NoError(t, err)
	assert.Equal(t, 0, d.CesareanRate)
	assert.Equal(t, 0.0, d.ChildrenPerDelivery)

	f, err := NewFamilyPlanningAggregator(store).Aggregate(ctx, february2024, "")
	require.NoError(t, err)
	assert.Equal(t, 0, f.TotalVisits)
	assert.Equal(t, NoPopularMethod, f.PopularMethod)
}

func TestSummarize_FillsOnlyItsOwnSection(t *testing.T) {
	store := memory.NewStore()
	s, err := NewDeliveryAggregator(store).Summarize(context.Background(), february2024, "")
	require.NoError(t, err)
	assert.NotNil(t, s.Delivery)
	assert.Nil(t, s.Prenatal)
	assert.Nil(t, s.FamilyPlanning)
}
