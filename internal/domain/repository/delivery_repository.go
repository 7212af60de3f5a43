package repository

import (
	"context"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
)

// Deliverer é a fronteira entre o gatilho e o pipeline de entrega; pode ser
// uma chamada local ou remota. Nunca retorna erro: falhas vão no resultado.
type Deliverer interface {
	Deliver(ctx context.Context, req entity.DeliverRequest) entity.DeliverResult
}

// Notifier avisa os destinatários que um relatório foi gerado.
type Notifier interface {
	NotifyReport(ctx context.Context, center *entity.Center, report entity.Report) error
	NotifyPendingConsultations(ctx context.Context, center entity.Center, pending []entity.Consultation) error
}

// RunRecorder guarda o histórico das execuções do gatilho.
type RunRecorder interface {
	RecordRun(ctx context.Context, result entity.TriggerResult) error
}
