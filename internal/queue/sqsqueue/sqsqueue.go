// Package sqsqueue implements interfaces.Queue on top of Amazon SQS. Queue
// names map 1:1 onto SQS queue names; visibility timeout and long-poll wait
// map onto SQS's native lease and receive-wait parameters.
package sqsqueue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	smithy "github.com/aws/smithy-go"
	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue"
)

// waitTimeSeconds is SQS's native long-poll window, capped at 20s by the API.
const waitTimeSeconds = 5

// Queue implements interfaces.Queue over Amazon SQS.
type Queue struct {
	client   *sqs.Client
	logger   *common.Logger
	queueURL map[string]string
}

// New builds a Queue from the given region/endpoint. An empty endpoint uses
// SQS's default regional endpoint; a non-empty one targets a local
// SQS-compatible service for development.
func New(ctx context.Context, region, endpoint string, logger *common.Logger) (*Queue, error) {
	optFns := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*sqs.Options)
	if endpoint != "" {
		// Local SQS-compatible endpoints (e.g. ElasticMQ, LocalStack) don't
		// validate credentials but the SDK still requires some to be set.
		clientOpts = append(clientOpts,
			func(o *sqs.Options) { o.BaseEndpoint = aws.String(endpoint) },
			func(o *sqs.Options) { o.Credentials = credentials.NewStaticCredentialsProvider("local", "local", "") },
		)
	}

	return &Queue{
		client:   sqs.NewFromConfig(cfg, clientOpts...),
		logger:   logger,
		queueURL: make(map[string]string),
	}, nil
}

func (q *Queue) Create(ctx context.Context, name string) error {
	out, err := q.client.CreateQueue(ctx, &sqs.CreateQueueInput{QueueName: aws.String(name)})
	if err != nil {
		if isAlreadyExists(err) {
			return q.resolveURL(ctx, name)
		}
		return fmt.Errorf("create queue %s: %w", name, classify(err))
	}
	q.queueURL[name] = aws.ToString(out.QueueUrl)
	return nil
}

func (q *Queue) Drop(ctx context.Context, name string) error {
	url, err := q.urlFor(ctx, name)
	if err != nil {
		// Already gone — idempotent.
		return nil
	}
	if _, err := q.client.DeleteQueue(ctx, &sqs.DeleteQueueInput{QueueUrl: aws.String(url)}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("drop queue %s: %w", name, classify(err))
	}
	delete(q.queueURL, name)
	return nil
}

func (q *Queue) Send(ctx context.Context, name string, payload *models.QueueEntry) (string, error) {
	url, err := q.urlFor(ctx, name)
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", name, err)
	}

	body, err := marshalEntry(payload)
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", name, err)
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(url),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", name, classify(err))
	}
	return aws.ToString(out.MessageId), nil
}

func (q *Queue) Read(ctx context.Context, name string, vt time.Duration, qty int) ([]interfaces.ReadEntry, error) {
	url, err := q.urlFor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read from %s: %w", name, err)
	}

	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(url),
		MaxNumberOfMessages: int32(qty),
		VisibilityTimeout:   int32(vt.Seconds()),
		WaitTimeSeconds:     waitTimeSeconds,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
			types.MessageSystemAttributeNameSentTimestamp,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("read from %s: %w", name, classify(err))
	}

	now := time.Now()
	entries := make([]interfaces.ReadEntry, 0, len(out.Messages))
	for _, msg := range out.Messages {
		entry, err := unmarshalEntry(aws.ToString(msg.Body))
		if err != nil {
			q.logger.Warn().Str("queue", name).Err(err).Msg("discarding unparseable queue message")
			continue
		}
		entries = append(entries, interfaces.ReadEntry{
			MsgID:      aws.ToString(msg.ReceiptHandle),
			ReadCount:  receiveCount(msg.Attributes),
			EnqueuedAt: sentTime(msg.Attributes, now),
			VisibleAt:  now.Add(vt),
			Payload:    entry,
		})
	}
	return entries, nil
}

func (q *Queue) Archive(ctx context.Context, name, msgID string) error {
	url, err := q.urlFor(ctx, name)
	if err != nil {
		return nil
	}
	if _, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(url),
		ReceiptHandle: aws.String(msgID),
	}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("archive %s: %w", name, classify(err))
	}
	return nil
}

// urlFor returns the cached queue URL, resolving it via GetQueueUrl on miss.
func (q *Queue) urlFor(ctx context.Context, name string) (string, error) {
	if url, ok := q.queueURL[name]; ok {
		return url, nil
	}
	return "", q.resolveURL(ctx, name)
}

func (q *Queue) resolveURL(ctx context.Context, name string) error {
	out, err := q.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		return fmt.Errorf("resolve queue url for %s: %w", name, classify(err))
	}
	q.queueURL[name] = aws.ToString(out.QueueUrl)
	return nil
}

func isAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "QueueAlreadyExists"
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return code == "AWS.SimpleQueueService.NonExistentQueue" || code == "QueueDoesNotExist"
}

// classify wraps throttling, recreate-cooldown and network errors in
// ErrTransient so callers can tell a retryable failure from a permanent one.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Throttling", "RequestThrottled", "QueueDeletedRecently":
			return fmt.Errorf("%w: %s", queue.ErrTransient, err)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s", queue.ErrTransient, err)
	}
	return err
}
