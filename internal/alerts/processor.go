package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// Worker consumes notification tasks and writes them to the inbox.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log logrus.FieldLogger
}

func NewWorker(redisAddr string, inbox Notifier, log logrus.FieldLogger) *Worker {
	mux := asynq.NewServeMux()
	// prefix match covers every notify:* task type
	mux.HandleFunc("notify:", HandleTask(inbox, log))

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{queueName: 1},
		Logger:      log,
	})
	return &Worker{srv: srv, mux: mux, log: log}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start notification worker: %w", err)
	}
	w.log.Info("notification worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

// HandleTask decodes an event and stores it.
func HandleTask(inbox Notifier, log logrus.FieldLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var ev Event
		if err := json.Unmarshal(t.Payload(), &ev); err != nil {
			// a malformed payload will never succeed
			return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
		}
		if err := inbox.Notify(ctx, ev); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"type": ev.Type, "user_id": ev.UserID}).Debug("notification stored")
		return nil
	}
}
