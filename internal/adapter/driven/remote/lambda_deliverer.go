// Package remote invoca o pipeline de entrega fora do processo: numa
// função Lambda ou num endpoint HTTP de outra instância.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
)

// LambdaInvokeAPI é o subconjunto do cliente Lambda usado aqui.
type LambdaInvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaDeliverer gera cada relatório numa invocação síncrona da função.
type LambdaDeliverer struct {
	client   LambdaInvokeAPI
	function string
}

var _ repository.Deliverer = (*LambdaDeliverer)(nil)

func NewLambdaDeliverer(client LambdaInvokeAPI, function string) *LambdaDeliverer {
	return &LambdaDeliverer{client: client, function: function}
}

func (d *LambdaDeliverer) Deliver(ctx context.Context, req entity.DeliverRequest) entity.DeliverResult {
	payload, err := json.Marshal(req)
	if err != nil {
		return failed(err)
	}

	out, err := d.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(d.function),
		Payload:      payload,
	})
	if err != nil {
		return failed(fmt.Errorf("invoking %s: %w", d.function, err))
	}
	if out.FunctionError != nil {
		return failed(fmt.Errorf("function %s failed (%s): %s", d.function, aws.ToString(out.FunctionError), string(out.Payload)))
	}

	var result entity.DeliverResult
	if err := json.Unmarshal(out.Payload, &result); err != nil {
		return failed(fmt.Errorf("decoding response of %s: %w", d.function, err))
	}
	return result
}

func failed(err error) entity.DeliverResult {
	return entity.DeliverResult{Success: false, Error: err.Error(), ErrorKind: "upstream"}
}
