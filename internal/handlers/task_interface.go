package handlers

import (
	"context"
	"taskManager/internal/models/task"
	"time"
)

type Service interface {
	HealthCheck(context.Context) error
	ListTasks(context.Context) ([]*task.Task, error)
	GetTask(context.Context, int64) (*task.Task, error)
	CreateTask(context.Context, string, string, task.Priority, *time.Time) (*task.Task, error)
	UpdateTask(context.Context, int64, task.Patch) (*task.Task, error)
	DeleteTask(context.Context, int64) (bool, error)
}
