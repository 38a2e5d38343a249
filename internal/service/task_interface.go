package service

import (
	"context"
	"taskManager/internal/models/task"
	"taskManager/internal/notify"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	List(context.Context) ([]*task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	Create(context.Context, *task.Task) error
	Update(context.Context, int64, task.Patch) (*task.Task, error)
	Delete(context.Context, int64) (bool, error)
	Count(context.Context) (int, error)
}

// Dispatcher принимает событие и сразу возвращает управление; доставка не гарантируется
type Dispatcher interface {
	Dispatch(notify.Event) bool
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(notify.Event) bool { return false }
