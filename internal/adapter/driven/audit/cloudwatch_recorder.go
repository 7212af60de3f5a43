// Package audit guarda o histórico das execuções do gatilho.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

// CloudWatchLogsAPI é o subconjunto do cliente CloudWatch Logs usado aqui.
type CloudWatchLogsAPI interface {
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchRecorder grava cada TriggerResult como um evento JSON.
type CloudWatchRecorder struct {
	client CloudWatchLogsAPI
	group  string
	stream string

	mu            sync.Mutex
	streamCreated bool
}

var _ repository.RunRecorder = (*CloudWatchRecorder)(nil)

func NewCloudWatchRecorder(client CloudWatchLogsAPI, group, stream string) *CloudWatchRecorder {
	if stream == "" {
		stream = "trigger-runs"
	}
	return &CloudWatchRecorder{client: client, group: group, stream: stream}
}

func (r *CloudWatchRecorder) RecordRun(ctx context.Context, result entity.TriggerResult) error {
	msg, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding trigger result: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureStream(ctx); err != nil {
		return err
	}

	ts := result.FinishedAt
	if ts.IsZero() {
		ts = result.StartedAt
	}
	_, err = r.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(r.group),
		LogStreamName: aws.String(r.stream),
		LogEvents: []types.InputLogEvent{{
			Message:   aws.String(string(msg)),
			Timestamp: aws.Int64(ts.UnixMilli()),
		}},
	})
	if err != nil {
		return fmt.Errorf("writing run %s to %s/%s: %w", result.RunID, r.group, r.stream, err)
	}
	return nil
}

func (r *CloudWatchRecorder) ensureStream(ctx context.Context) error {
	if r.streamCreated {
		return nil
	}
	_, err := r.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(r.group),
		LogStreamName: aws.String(r.stream),
	})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("creating log stream %s/%s: %w", r.group, r.stream, err)
	}
	r.streamCreated = true
	return nil
}

// LogRecorder registra o resumo da execução no logger da aplicação.
type LogRecorder struct {
	log logrus.FieldLogger
}

var _ repository.RunRecorder = (*LogRecorder)(nil)

func NewLogRecorder(log logrus.FieldLogger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) RecordRun(_ context.Context, result entity.TriggerResult) error {
	failed := 0
	for _, t := range result.Results {
		if t.State == entity.TaskFailed {
			failed++
		}
	}
	entry := r.log.WithFields(logrus.Fields{
		"runId":     result.RunID,
		"period":    fmt.Sprintf("%s %d", result.Month, result.Year),
		"generated": result.GeneratedCount,
		"attempted": result.TotalAttempted,
		"failed":    failed,
		"skipped":   result.SkippedCenters,
		"duration":  result.FinishedAt.Sub(result.StartedAt).String(),
	})
	if !result.Success {
		entry.WithField("error", result.Error).Warn("trigger run did not complete")
		return nil
	}
	entry.Info("trigger run recorded")
	return nil
}
