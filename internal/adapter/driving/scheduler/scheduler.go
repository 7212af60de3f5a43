package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job é uma tarefa periódica. Next devolve o próximo disparo estritamente
// posterior a now.
type Job struct {
	Name string
	Next func(now time.Time) time.Time
	Run  func(ctx context.Context) error
}

// Scheduler dispara cada Job no seu horário, numa goroutine própria.
type Scheduler struct {
	jobs []Job
	now  func() time.Time
	log  logrus.FieldLogger
	wg   sync.WaitGroup
}

// New cria um Scheduler. now pode ser nil.
func New(log logrus.FieldLogger, now func() time.Time, jobs ...Job) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{jobs: jobs, now: now, log: log}
}

// Start inicia os laços dos jobs; eles terminam quando ctx é cancelado.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, job)
		}()
	}
}

// Wait bloqueia até todos os laços terminarem.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	log := s.log.WithField("job", job.Name)
	for {
		next := job.Next(s.now())
		log.WithField("next", next.Format(time.RFC3339)).Debug("job scheduled")

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.runOnce(ctx, job); err != nil {
			log.WithError(err).Error("job failed")
		}
	}
}

// runOnce executa o job e converte panics em erro.
func (s *Scheduler) runOnce(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	start := s.now()
	err = job.Run(ctx)
	if err == nil {
		s.log.WithFields(logrus.Fields{"job": job.Name, "duration": s.now().Sub(start).String()}).Info("job finished")
	}
	return err
}

// Monthly dispara no dia day do mês, às hour:00 em loc.
func Monthly(day, hour int, loc *time.Location) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		now = now.In(loc)
		next := time.Date(now.Year(), now.Month(), day, hour, 0, 0, 0, loc)
		if !next.After(now) {
			next = time.Date(now.Year(), now.Month()+1, day, hour, 0, 0, 0, loc)
		}
		return next
	}
}

// Weekly dispara no dia da semana weekday, às hour:00 em loc.
func Weekly(weekday time.Weekday, hour int, loc *time.Location) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		now = now.In(loc)
		days := (int(weekday) - int(now.Weekday()) + 7) % 7
		next := time.Date(now.Year(), now.Month(), now.Day()+days, hour, 0, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next
	}
}

// Daily dispara todos os dias às hour:00 em loc.
func Daily(hour int, loc *time.Location) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		now = now.In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
}
