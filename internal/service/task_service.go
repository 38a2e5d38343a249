package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/notify"
	rep "taskManager/internal/repository"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

const MaxTitleLength = 200

type TaskService struct {
	repo       TaskRepository
	dispatcher Dispatcher
}

func NewTaskService(repo TaskRepository, dispatcher Dispatcher) *TaskService {
	if dispatcher == nil {
		dispatcher = nopDispatcher{}
	}
	return &TaskService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, description string, priority task.Priority, dueDate *time.Time) (*task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "Title required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, NewValidationError("title", titleTooLong)
	}
	if priority != "" && !priority.Valid() {
		return nil, NewValidationError("priority", "Priority must be one of low, medium, high")
	}

	t := &task.Task{
		Title:       title,
		Description: description,
		Priority:    priority.OrDefault(),
		DueDate:     dueDate,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Debug("Service: Задача создана", zap.Int64("id", t.ID))

	// результат доставки не влияет на создание задачи
	if !s.dispatcher.Dispatch(notify.Event{TaskID: t.ID, Action: notify.ActionCreated, Title: t.Title}) {
		logger.Debug("Service: Уведомление не поставлено в очередь", zap.Int64("id", t.ID))
	}

	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, NewValidationError("title", "Title must not be empty")
		}
		if utf8.RuneCountInString(trimmed) > MaxTitleLength {
			return nil, NewValidationError("title", titleTooLong)
		}
		patch.Title = &trimmed
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, NewValidationError("priority", "Priority must be one of low, medium, high")
	}

	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

// DeleteTask возвращает false, если задачи с таким id не было
func (s *TaskService) DeleteTask(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("удаление задачи: %w", err)
	}
	if !deleted {
		logger.Debug("Service: Удаление несуществующей задачи", zap.Int64("target_id", id))
	}
	return deleted, nil
}

// SeedDemo заполняет пустое хранилище демонстрационными задачами
func (s *TaskService) SeedDemo(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("подсчёт задач: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for i, demo := range demoTasks() {
		if err := s.repo.Create(ctx, demo); err != nil {
			return created, fmt.Errorf("создание демо-задачи: %w", err)
		}
		if i == 0 {
			done := true
			if _, err := s.repo.Update(ctx, demo.ID, task.Patch{Completed: &done}); err != nil {
				return created, fmt.Errorf("обновление демо-задачи: %w", err)
			}
		}
		created++
	}

	logger.Info("Service: Добавлены демо-задачи", zap.Int("count", created))
	return created, nil
}

var titleTooLong = fmt.Sprintf("Title must be at most %d characters", MaxTitleLength)

func demoTasks() []*task.Task {
	return []*task.Task{
		{Title: "Set up the project", Description: "Create the repository and the basic layout", Priority: task.PriorityHigh},
		{Title: "Design the database schema", Description: "Tasks and users tables", Priority: task.PriorityHigh},
		{Title: "Implement the REST API", Description: "CRUD endpoints for tasks", Priority: task.PriorityMedium},
		{Title: "Build the task list page", Description: "Render tasks with summary stats", Priority: task.PriorityMedium},
		{Title: "Hook up notifications", Description: "Send an event when a task is created", Priority: task.PriorityLow},
		{Title: "Write documentation", Description: "Describe configuration and deployment", Priority: task.PriorityLow},
	}
}
