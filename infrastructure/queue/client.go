package queue

import (
	"context"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/infrastructure/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Producer is the enqueue-only face of the job layer handed to controllers.
// Every task is enqueued with the retry policy from config; asynq archives
// the task once the attempts are exhausted.
type Producer struct {
	client   *asynq.Client
	attempts int
	logger   *zap.Logger
}

// NewProducer creates a producer on the queue's Redis backing store.
func NewProducer(cfg *config.Config, logger *zap.Logger) (*Producer, error) {
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "parse queue redis uri")
	}
	return &Producer{
		client:   asynq.NewClient(opt),
		attempts: cfg.JobAttempts,
		logger:   logger,
	}, nil
}

// Enqueue adds one task to its family queue. MaxRetry counts retries after
// the first attempt, so a 3-attempt policy enqueues with MaxRetry(2).
func (p *Producer) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	task, err := NewTask(taskType, payload)
	if err != nil {
		return apperrors.Wrap(err, "encode task payload")
	}

	info, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(queueFor(taskType)),
		asynq.MaxRetry(p.attempts-1),
		asynq.TaskID(uuid.NewString()),
	)
	if err != nil {
		return apperrors.Wrap(err, "enqueue task")
	}

	p.logger.Debug("task enqueued",
		zap.String("type", taskType),
		zap.String("queue", info.Queue),
		zap.String("task_id", info.ID),
	)
	return nil
}

// Close releases the underlying client connection.
func (p *Producer) Close() error {
	return p.client.Close()
}
