package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]types.Message
	deleted  []string
	received int
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received++
	if len(f.batches) == 0 {
		if f.received > 100 {
			return nil, errors.New("throttled")
		}
		return &sqs.ReceiveMessageOutput{}, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return &sqs.ReceiveMessageOutput{Messages: batch}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type handlerFunc func(ctx context.Context, body string) error

func (h handlerFunc) HandleQueueMessage(ctx context.Context, body string) error { return h(ctx, body) }

func TestSQSConsumer_DeletesOnlyHandledMessages(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{{
		{MessageId: aws.String("1"), ReceiptHandle: aws.String("ok"), Body: aws.String(`{"slot_id":"C1"}`)},
		{MessageId: aws.String("2"), ReceiptHandle: aws.String("fail"), Body: aws.String("boom")},
		{MessageId: aws.String("3"), ReceiptHandle: aws.String("empty")},
	}}}
	var mu sync.Mutex
	var bodies []string
	consumer := NewSQSConsumer(client, "https://sqs.local/violations", handlerFunc(func(ctx context.Context, body string) error {
		mu.Lock()
		defer mu.Unlock()
		bodies = append(bodies, body)
		if body == "boom" {
			return errors.New("không xử lý được")
		}
		return nil
	}))
	consumer.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(client.deletedHandles()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer không dừng sau khi cancel context")
	}

	assert.ElementsMatch(t, []string{"ok", "empty"}, client.deletedHandles())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`{"slot_id":"C1"}`, "boom"}, bodies)
}
