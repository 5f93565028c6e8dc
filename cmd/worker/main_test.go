package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"tailor-backend/internal/queue"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	_ = ctx
	_ = params
	_ = optFns
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	_ = ctx
	_ = optFns
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	processErr error
	abandonErr error
	processed  []string
	abandoned  []string
	reasons    []string
}

func (f *fakeProcessor) Process(ctx context.Context, jobID string) error {
	_ = ctx
	f.processed = append(f.processed, jobID)
	return f.processErr
}

func (f *fakeProcessor) Abandon(ctx context.Context, jobID, reason string) error {
	_ = ctx
	f.abandoned = append(f.abandoned, jobID)
	f.reasons = append(f.reasons, reason)
	return f.abandonErr
}

func setMaxReceiveCount(t *testing.T, n int) {
	t.Helper()
	old := maxReceiveCount
	maxReceiveCount = n
	t.Cleanup(func() { maxReceiveCount = old })
}

func jobMessage(t *testing.T, jobID, receipt, receiveCount string) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(queue.NewMessage(jobID, "guest:u1", "req-"+jobID, time.Now()))
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String("m-" + jobID),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": receiveCount},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{}

	handleMessage(context.Background(), client, "queue", proc, jobMessage(t, "job-1", "r1", "1"))

	if len(proc.processed) != 1 || proc.processed[0] != "job-1" {
		t.Fatalf("expected job-1 processed, got %v", proc.processed)
	}
	if len(client.deleted) != 1 || client.deleted[0] != "r1" {
		t.Fatalf("expected delete of r1, got %v", client.deleted)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{processErr: errors.New("boom")}

	handleMessage(context.Background(), client, "queue", proc, jobMessage(t, "job-2", "r2", "1"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", client.deleted)
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), client, "queue", proc, msg)

	if len(proc.processed) != 0 {
		t.Fatalf("expected no processing, got %v", proc.processed)
	}
	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnEmptyBody(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m4"),
		ReceiptHandle: aws.String("r4"),
		Body:          aws.String("   "),
	}

	handleMessage(context.Background(), client, "queue", proc, msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerAbandonsJobPastRedeliveryBudget(t *testing.T) {
	setMaxReceiveCount(t, 3)
	client := &fakeSQS{}
	proc := &fakeProcessor{}

	handleMessage(context.Background(), client, "queue", proc, jobMessage(t, "job-9", "r9", "4"))

	if len(proc.processed) != 0 {
		t.Fatalf("expected no processing, got %v", proc.processed)
	}
	if len(proc.abandoned) != 1 || proc.abandoned[0] != "job-9" {
		t.Fatalf("expected job-9 abandoned, got %v", proc.abandoned)
	}
	if len(proc.reasons) != 1 || !strings.Contains(proc.reasons[0], "4 deliveries") {
		t.Fatalf("unexpected reason: %v", proc.reasons)
	}
	if len(client.deleted) != 1 {
		t.Fatalf("expected delete after abandon, got %d", len(client.deleted))
	}
}

func TestWorkerKeepsMessageWhenAbandonFails(t *testing.T) {
	setMaxReceiveCount(t, 3)
	client := &fakeSQS{}
	proc := &fakeProcessor{abandonErr: errors.New("db down")}

	handleMessage(context.Background(), client, "queue", proc, jobMessage(t, "job-10", "r10", "5"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete so the abandon can retry, got %v", client.deleted)
	}
}
