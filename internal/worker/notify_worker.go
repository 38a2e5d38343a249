package worker

import (
	"context"
	"taskManager/internal/logger"
	"taskManager/internal/notify"
	"time"

	"go.uber.org/zap"
)

// NotifyWorker доставляет события в фоне, чтобы обработчик запроса не ждал внешний сервис
type NotifyWorker struct {
	notifier notify.Notifier
	queue    chan notify.Event
	timeout  time.Duration
}

func NewNotifyWorker(notifier notify.Notifier, queueSize *int, timeout *time.Duration) *NotifyWorker {
	var sizeToSet int
	if queueSize == nil || *queueSize <= 0 {
		sizeToSet = 100
	} else {
		sizeToSet = *queueSize
	}

	var timeoutToSet time.Duration
	if timeout == nil || *timeout <= 0 {
		timeoutToSet = 5 * time.Second
	} else {
		timeoutToSet = *timeout
	}

	return &NotifyWorker{
		notifier: notifier,
		queue:    make(chan notify.Event, sizeToSet),
		timeout:  timeoutToSet,
	}
}

// Dispatch не блокируется: при заполненной очереди или отключённом получателе событие отбрасывается
func (w *NotifyWorker) Dispatch(event notify.Event) bool {
	if !w.notifier.Available() {
		return false
	}

	select {
	case w.queue <- event:
		return true
	default:
		logger.Warn("Worker: Очередь уведомлений заполнена, событие отброшено", zap.Int64("task_id", event.TaskID))
		return false
	}
}

func (w *NotifyWorker) Start(ctx context.Context) {
	logger.Info("Worker: Доставка уведомлений запущена", zap.String("notifier", w.notifier.Name()))

	for {
		select {
		case event := <-w.queue:
			w.Deliver(ctx, event)
		case <-ctx.Done():
			logger.Info("Worker: Доставка уведомлений останавливается", zap.Int("pending", len(w.queue)))
			return
		}
	}
}

// Deliver отправляет одно событие; ошибка только логируется
func (w *NotifyWorker) Deliver(ctx context.Context, event notify.Event) {
	start := time.Now()

	deliverCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.notifier.Notify(deliverCtx, event); err != nil {
		logger.Warn("Worker: Ошибка доставки уведомления",
			zap.Int64("task_id", event.TaskID),
			zap.String("action", event.Action),
			zap.Error(err),
		)
		return
	}

	logger.Debug("Worker: Уведомление доставлено",
		zap.Int64("task_id", event.TaskID),
		zap.Duration("ms", time.Since(start)),
	)
}
