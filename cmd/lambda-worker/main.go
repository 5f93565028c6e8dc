package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"tailor-backend/internal/bootstrap"
	"tailor-backend/internal/shared/config"
	"tailor-backend/internal/shared/metrics"
	"tailor-backend/internal/shared/telemetry"
	"tailor-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	built, err := bootstrap.BuildWorker(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

// handler processes one SQS batch. Records that fail the pipeline are
// reported as batch item failures so SQS redelivers only those; records
// with unusable payloads are dropped, since redelivery cannot fix them.
// The redelivery budget itself lives in the queue's redrive policy here.
func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncWorkerMessageReceived()

		decoded, meta, err := workerproc.ParseMessage(record.Body)
		if err != nil {
			telemetry.Error("worker.job.decode_failed", map[string]any{
				"sqs_message_id": record.MessageId,
				"body_len":       meta.BodyLen,
				"body_sha256":    meta.BodySHA,
				"error":          err.Error(),
			})
			metrics.IncWorkerMessageDiscarded()
			continue
		}

		if err := workerproc.HandleMessage(ctx, app.TailorService, decoded); err != nil {
			telemetry.Error("worker.job.failed", map[string]any{
				"job_id":         decoded.JobID,
				"request_id":     decoded.RequestID,
				"sqs_message_id": record.MessageId,
				"error":          err.Error(),
			})
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
