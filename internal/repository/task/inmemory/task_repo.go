package inmemory

import (
	"context"
	"sort"
	"sync"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"time"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	lastID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	s.lastID++
	taskToCreate.ID = s.lastID
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now
	taskToCreate.Priority = taskToCreate.Priority.OrDefault()

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	return nil
}

// Update применяет патч под одной блокировкой, поэтому параллельные обновления не теряют поля
func (s *TaskStorage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	patch.Apply(existing)
	now := s.now()
	if now.Before(existing.CreatedAt) {
		now = existing.CreatedAt
	}
	existing.UpdatedAt = now

	return existing.Clone(), nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}
	delete(s.storage, id)
	return true, nil
}

// сначала новые, при равном created_at - больший id
func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.storage))
	for _, t := range s.storage {
		res = append(res, t.Clone())
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})

	return res, nil
}

func (s *TaskStorage) Count(ctx context.Context) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.storage), nil
}
