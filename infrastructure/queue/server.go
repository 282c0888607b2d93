package queue

import (
	"context"
	"time"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/infrastructure/config"
	"github.com/fullstackyodha/wechat-backend/pkg/metrics"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewServer builds the worker-side asynq server: fixed retry delay, the
// configured concurrency bound, equal weight across the family queues.
func NewServer(cfg *config.Config, logger *zap.Logger, jm *metrics.JobMetrics) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "parse queue redis uri")
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues: map[string]int{
			QueuePosts:         1,
			QueueComments:      1,
			QueueReactions:     1,
			QueueConnections:   1,
			QueueChats:         1,
			QueueUsers:         1,
			QueueNotifications: 1,
			QueueEmails:        1,
		},
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			return cfg.JobRetryDelay
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			queue, _ := asynq.GetQueueName(ctx)
			jm.Failed.WithLabelValues(queue, task.Type()).Inc()
			logger.Error("task attempt failed",
				zap.String("type", task.Type()),
				zap.String("queue", queue),
				zap.Int("retried", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err),
			)
		}),
		Logger: &zapQueueLogger{logger: logger},
	})
	return srv, nil
}

// zapQueueLogger adapts zap to asynq's internal logger interface.
type zapQueueLogger struct {
	logger *zap.Logger
}

func (l *zapQueueLogger) Debug(args ...interface{}) { l.logger.Sugar().Debug(args...) }
func (l *zapQueueLogger) Info(args ...interface{})  { l.logger.Sugar().Info(args...) }
func (l *zapQueueLogger) Warn(args ...interface{})  { l.logger.Sugar().Warn(args...) }
func (l *zapQueueLogger) Error(args ...interface{}) { l.logger.Sugar().Error(args...) }
func (l *zapQueueLogger) Fatal(args ...interface{}) { l.logger.Sugar().Fatal(args...) }
