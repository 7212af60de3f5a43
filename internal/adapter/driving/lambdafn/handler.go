// Package lambdafn expõe o pipeline de entrega como função Lambda, o lado
// servidor do deliverer "lambda".
package lambdafn

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

// Handler recebe o mesmo JSON que remote.LambdaDeliverer envia.
type Handler func(ctx context.Context, req entity.DeliverRequest) (entity.DeliverResult, error)

// NewHandler nunca devolve erro de invocação: falhas da entrega seguem no
// DeliverResult, senão o chamador perderia ErrorKind e FailedStep.
func NewHandler(d repository.Deliverer, log logrus.FieldLogger) Handler {
	return func(ctx context.Context, req entity.DeliverRequest) (entity.DeliverResult, error) {
		entry := log.WithFields(logrus.Fields{"center": req.CenterID, "type": req.Type, "period": req.PeriodLabel})
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			entry = entry.WithField("request_id", lc.AwsRequestID)
		}

		result := d.Deliver(ctx, req)
		if !result.Success {
			entry.WithFields(logrus.Fields{"kind": result.ErrorKind, "step": result.FailedStep}).Warn(result.Error)
			return result, nil
		}
		entry.WithField("report", result.ReportID).Info("report delivered")
		return result, nil
	}
}
