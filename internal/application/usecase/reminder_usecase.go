package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

// ReminderUseCase avisa cada centro das consultas pré-natais do dia ainda não realizadas.
type ReminderUseCase struct {
	store    repository.Store
	notifier repository.Notifier
	now      func() time.Time
	log      logrus.FieldLogger
}

func NewReminderUseCase(store repository.Store, notifier repository.Notifier, now func() time.Time, log logrus.FieldLogger) *ReminderUseCase {
	if now == nil {
		now = time.Now
	}
	return &ReminderUseCase{store: store, notifier: notifier, now: now, log: log}
}

// SendDailyReminders devolve quantos centros foram notificados. Um centro
// com erro não impede os outros; o último erro é devolvido.
func (uc *ReminderUseCase) SendDailyReminders(ctx context.Context) (int, error) {
	if uc.notifier == nil {
		return 0, nil
	}

	centers, err := uc.store.ListCenters(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing centers: %w", err)
	}

	now := uc.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := entity.Window{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Second)}

	sent := 0
	var lastErr error
	for _, c := range centers {
		pending, err := uc.pendingFor(ctx, today, c.ID)
		if err != nil {
			lastErr = err
			uc.log.WithError(err).WithField("centerId", c.ID).Error("could not compute pending consultations")
			continue
		}
		if len(pending) == 0 {
			continue
		}
		if err := uc.notifier.NotifyPendingConsultations(ctx, c, pending); err != nil {
			lastErr = err
			uc.log.WithError(err).WithField("centerId", c.ID).Warn("reminder notification failed")
			continue
		}
		sent++
	}

	uc.log.WithField("notified", sent).Info("daily reminders sent")
	return sent, lastErr
}

func (uc *ReminderUseCase) pendingFor(ctx context.Context, today entity.Window, centerID string) ([]entity.Consultation, error) {
	list, err := uc.store.FindConsultations(ctx, today, centerID)
	if err != nil {
		return nil, err
	}
	var pending []entity.Consultation
	for _, c := range list {
		done, err := uc.store.HasConsultationDetail(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, c)
		}
	}
	return pending, nil
}
