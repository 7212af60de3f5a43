package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRequest = entity.DeliverRequest{
	Type: entity.ReportDelivery, PeriodLabel: "février", Year: 2024, CenterID: "c1", GeneratedBy: "trigger:run",
}

type fakeLambda struct {
	input *lambda.InvokeInput
	out   *lambda.InvokeOutput
	err   error
}

func (f *fakeLambda) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.input = in
	return f.out, f.err
}

func TestLambdaDeliverer_Success(t *testing.T) {
	client := &fakeLambda{out: &lambda.InvokeOutput{
		Payload: []byte(`{"success":true,"reportId":"RPT010324AB","documentUrl":"https://x/a.pdf"}`),
	}}
	res := NewLambdaDeliverer(client, "generate-report").Deliver(context.Background(), sampleRequest)

	assert.True(t, res.Success)
	assert.Equal(t, "RPT010324AB", res.ReportID)
	assert.Equal(t, "generate-report", aws.ToString(client.input.FunctionName))

	var sent entity.DeliverRequest
	require.NoError(t, json.Unmarshal(client.input.Payload, &sent))
	assert.Equal(t, sampleRequest, sent)
}

func TestLambdaDeliverer_FunctionError(t *testing.T) {
	client := &fakeLambda{out: &lambda.InvokeOutput{
		FunctionError: aws.String("Unhandled"),
		Payload:       []byte(`{"errorMessage":"timeout"}`),
	}}
	res := NewLambdaDeliverer(client, "generate-report").Deliver(context.Background(), sampleRequest)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Unhandled")
	assert.Contains(t, res.Error, "timeout")
}

func TestLambdaDeliverer_InvokeError(t *testing.T) {
	res := NewLambdaDeliverer(&fakeLambda{err: errors.New("throttled")}, "f").Deliver(context.Background(), sampleRequest)
	assert.False(t, res.Success)
	assert.Equal(t, "invoking f: throttled", res.Error)
	assert.Equal(t, "upstream", res.ErrorKind)
}

func TestHTTPDeliverer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		var req entity.DeliverRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.CenterID == "broken" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"error":"bucket unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"reportId":"RPT1"}`))
	}))
	defer srv.Close()

	d := NewHTTPDeliverer(srv.Client(), srv.URL+"/api/reports/generate", "s3cret")

	res := d.Deliver(context.Background(), sampleRequest)
	assert.True(t, res.Success)
	assert.Equal(t, "RPT1", res.ReportID)

	broken := sampleRequest
	broken.CenterID = "broken"
	res = d.Deliver(context.Background(), broken)
	assert.False(t, res.Success)
	assert.Equal(t, "bucket unavailable", res.Error)
}

func TestHTTPDeliverer_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	res := NewHTTPDeliverer(nil, srv.URL, "").Deliver(context.Background(), sampleRequest)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "status 504")
}
