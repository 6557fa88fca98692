package queue

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI là phần của *sqs.Client mà consumer dùng.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// MessageHandler xử lý body của một message; trả lỗi để message được nhận lại sau visibility timeout.
type MessageHandler interface {
	HandleQueueMessage(ctx context.Context, body string) error
}

type SQSConsumer struct {
	sqsClient  SQSAPI
	queueURL   string
	handler    MessageHandler
	retryDelay time.Duration
}

func NewSQSConsumer(client SQSAPI, queueURL string, handler MessageHandler) *SQSConsumer {
	return &SQSConsumer{
		sqsClient:  client,
		queueURL:   queueURL,
		handler:    handler,
		retryDelay: 5 * time.Second,
	}
}

func (c *SQSConsumer) Start(ctx context.Context) {
	log.Printf("SQS Consumer đang bắt đầu lắng nghe queue: %s", c.queueURL)
	for {
		select {
		case <-ctx.Done():
			log.Println("SQS Consumer: context cancelled, stopping.")
			return
		default:
		}

		result, err := c.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            &c.queueURL,
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   60,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("SQS Consumer: Lỗi khi nhận message: %v", err)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				log.Println("SQS Consumer: context cancelled while waiting for retry.")
				return
			}
			continue
		}

		if len(result.Messages) == 0 {
			continue
		}
		log.Printf("SQS Consumer: Đã nhận %d message(s)", len(result.Messages))

		for _, message := range result.Messages {
			if message.Body == nil {
				log.Println("SQS Consumer: Nhận được message với body rỗng. Đang xóa...")
				c.deleteMessage(ctx, message.ReceiptHandle)
				continue
			}

			if err := c.handler.HandleQueueMessage(ctx, *message.Body); err != nil {
				messageID := ""
				if message.MessageId != nil {
					messageID = *message.MessageId
				}
				log.Printf("SQS Consumer: Lỗi khi xử lý message ID %s: %v. Message sẽ được xử lý lại sau visibility timeout.", messageID, err)
				continue
			}
			c.deleteMessage(ctx, message.ReceiptHandle)
		}
	}
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		log.Println("SQS Consumer: Receipt handle rỗng, không thể xóa message.")
		return
	}
	_, err := c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &c.queueURL,
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		log.Printf("SQS Consumer: Lỗi khi xóa message: %v", err)
	}
}
