package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func feb(day, hour int) time.Time {
	return time.Date(2024, time.February, day, hour, 0, 0, 0, time.UTC)
}

type existsFunc func(ctx context.Context, collection, id string) (bool, error)

func (f existsFunc) IdentifierExists(ctx context.Context, collection, id string) (bool, error) {
	return f(ctx, collection, id)
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls []entity.ReportType
	err   error
}

func (r *fakeRenderer) Render(_ entity.ReportSummary, t entity.ReportType, _ string, _ int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, t)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

type uploadCall struct {
	name   string
	folder string
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads []uploadCall
	err     error
}

func (s *fakeStorage) Upload(_ context.Context, data []byte, name, folder string) (entity.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return entity.StoredObject{}, s.err
	}
	s.uploads = append(s.uploads, uploadCall{name: name, folder: folder})
	key := folder + "/" + name
	return entity.StoredObject{
		URL:      "https://files.example.test/" + key,
		ObjectID: key,
		Size:     int64(len(data)),
	}, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	reports  []entity.Report
	reminded map[string]int
	err      error
}

func (n *fakeNotifier) NotifyReport(_ context.Context, _ *entity.Center, r entity.Report) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports = append(n.reports, r)
	return n.err
}

func (n *fakeNotifier) NotifyPendingConsultations(_ context.Context, c entity.Center, pending []entity.Consultation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	if n.reminded == nil {
		n.reminded = make(map[string]int)
	}
	n.reminded[c.ID] = len(pending)
	return nil
}

type delivererFunc func(ctx context.Context, req entity.DeliverRequest) entity.DeliverResult

func (f delivererFunc) Deliver(ctx context.Context, req entity.DeliverRequest) entity.DeliverResult {
	return f(ctx, req)
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []entity.TriggerResult
}

func (r *fakeRecorder) RecordRun(_ context.Context, res entity.TriggerResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, res)
	return nil
}

var errBoom = errors.New("boom")
