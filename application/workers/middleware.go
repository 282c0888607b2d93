package workers

import (
	"context"
	"time"

	"github.com/fullstackyodha/wechat-backend/pkg/metrics"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// MetricsMiddleware counts successfully processed tasks per queue and type.
// Failures are counted by the server's error handler so one attempt is never
// double counted.
func MetricsMiddleware(jm *metrics.JobMetrics) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			err := next.ProcessTask(ctx, task)
			if err == nil {
				queueName, _ := asynq.GetQueueName(ctx)
				jm.Processed.WithLabelValues(queueName, task.Type()).Inc()
			}
			return err
		})
	}
}

// LoggingMiddleware logs each task with its outcome and duration.
func LoggingMiddleware(logger *zap.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			start := time.Now()
			err := next.ProcessTask(ctx, task)
			fields := []zap.Field{
				zap.String("type", task.Type()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("task failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("task processed", fields...)
			}
			return err
		})
	}
}
