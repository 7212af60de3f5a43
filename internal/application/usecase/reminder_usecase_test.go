package usecase

import (
	"context"
	"testing"

	"github.com/diillson/maternity-reports-go/internal/adapter/driven/memory"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReminderStore() *memory.Store {
	store := memory.NewStore()
	store.AddCenter(entity.Center{ID: "c1", Email: "c1@example.test"})
	store.AddCenter(entity.Center{ID: "c2", Email: "c2@example.test"})
	store.AddConsultation(entity.Consultation{ID: "x1", CenterID: "c1", ScheduledAt: feb(15, 8)})
	store.AddConsultation(entity.Consultation{ID: "x2", CenterID: "c1", ScheduledAt: feb(15, 14)})
	store.AddConsultation(entity.Consultation{ID: "x3", CenterID: "c1", ScheduledAt: feb(15, 9)})
	store.AddConsultation(entity.Consultation{ID: "x4", CenterID: "c2", ScheduledAt: feb(16, 9)})
	store.AddConsultationDetail(entity.ConsultationDetail{ID: "d", ConsultationID: "x3"})
	return store
}

func TestSendDailyReminders(t *testing.T) {
	log, _ := newTestLogger()
	notifier := &fakeNotifier{}
	uc := NewReminderUseCase(seedReminderStore(), notifier, fixedClock(feb(15, 7)), log)

	sent, err := uc.SendDailyReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, map[string]int{"c1": 2}, notifier.reminded)
}

func TestSendDailyReminders_NotifierErrors(t *testing.T) {
	log, _ := newTestLogger()
	uc := NewReminderUseCase(seedReminderStore(), &fakeNotifier{err: errBoom}, fixedClock(feb(15, 7)), log)

	sent, err := uc.SendDailyReminders(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, sent)
}

func TestSendDailyReminders_WithoutNotifier(t *testing.T) {
	log, _ := newTestLogger()
	uc := NewReminderUseCase(seedReminderStore(), nil, fixedClock(feb(15, 7)), log)

	sent, err := uc.SendDailyReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}
