package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"taskManager/internal/models/task"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/storetest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTaskStorage_Contract прогоняет общий набор проверок хранилища
func TestTaskStorage_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Store {
		return inmemory.NewTaskStorage()
	})
}

// TestTaskStorage_ReturnsCopies проверяет, что снаружи нельзя изменить сохранённую задачу
func TestTaskStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := &task.Task{Title: "Original"}
	require.NoError(t, storage.Create(ctx, taskToCreate))

	taskToCreate.Title = "changed after create"

	got, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	got.Title = "changed after get"

	again, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентное создание
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	taskCount := 100
	goroutines := 10

	var wg sync.WaitGroup
	errors := make(chan error, taskCount)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < taskCount/goroutines; j++ {
				taskToCreate := &task.Task{
					Title:    fmt.Sprintf("Task %d-%d", workerID, j),
					Priority: task.PriorityLow,
				}
				if err := storage.Create(ctx, taskToCreate); err != nil {
					errors <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errors)

	for err := range errors {
		assert.NoError(t, err)
	}

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, taskCount)

	ids := make(map[int64]struct{}, len(tasks))
	for _, tk := range tasks {
		ids[tk.ID] = struct{}{}
	}
	assert.Len(t, ids, taskCount, "идентификаторы должны быть уникальны")
}
