package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/metrics"
)

const queueName = "notifications"

// Queue hands events to the asynq worker through Redis.
type Queue struct {
	client *asynq.Client
}

func NewQueue(redisAddr string) *Queue {
	return &Queue{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

func (q *Queue) Notify(ctx context.Context, ev Event) error {
	task, err := newTask(ev)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, asynq.Queue(queueName), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", ev.Type, err)
	}
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

func newTask(ev Event) (*asynq.Task, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type, err)
	}
	return asynq.NewTask(ev.Type, b), nil
}

// Send delivers ev after the caller's transaction has committed. Delivery
// failures are logged and counted; they never fail the caller.
func Send(ctx context.Context, n Notifier, log logrus.FieldLogger, ev Event) {
	if n == nil || ev.UserID == "" {
		return
	}
	err := n.Notify(ctx, ev)
	metrics.RecordNotification(ev.Type, err)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"type":    ev.Type,
			"user_id": ev.UserID,
		}).Warn("notification not delivered")
	}
}
