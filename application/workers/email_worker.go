package workers

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EmailWorker delivers notification email. Delivery failures are retried by
// the queue but never touch the durable write that produced the email.
type EmailWorker struct {
	mailer ports.MailSender
	logger *zap.Logger
}

// NewEmailWorker creates an email worker.
func NewEmailWorker(mailer ports.MailSender, logger *zap.Logger) *EmailWorker {
	return &EmailWorker{mailer: mailer, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *EmailWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeSendNotificationEmail, w.HandleSendEmail)
}

func (w *EmailWorker) HandleSendEmail(ctx context.Context, task *asynq.Task) error {
	var p queue.SendEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.mailer.Send(ctx, p.To, p.Subject, p.Body); err != nil {
		return err
	}
	w.logger.Info("notification email delivered", zap.String("to", p.To))
	return nil
}
