// Package storetest содержит общий набор проверок для всех реализаций хранилища задач.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store - то, что проверяет контракт; совпадает с service.TaskRepository
type Store interface {
	HealthCheck(ctx context.Context) error
	List(ctx context.Context) ([]*task.Task, error)
	GetByID(ctx context.Context, id int64) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Run прогоняет все проверки; newStore должен возвращать пустое хранилище
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("Create", func(t *testing.T) { testCreate(t, newStore(t)) })
	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) { testIncreasingIDs(t, newStore(t)) })
	t.Run("GetByID_NotFound", func(t *testing.T) { testGetNotFound(t, newStore(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("UpdateOnlyCompleted", func(t *testing.T) { testUpdateCompleted(t, newStore(t)) })
	t.Run("UpdateAllFields", func(t *testing.T) { testUpdateAll(t, newStore(t)) })
	t.Run("UpdateEmptyPatchRefreshesUpdatedAt", func(t *testing.T) { testUpdateEmpty(t, newStore(t)) })
	t.Run("Update_NotFound", func(t *testing.T) { testUpdateNotFound(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("Count", func(t *testing.T) { testCount(t, newStore(t)) })
	t.Run("ConcurrentUpdates", func(t *testing.T) { testConcurrentUpdates(t, newStore(t)) })
	t.Run("UpdateClearsDueDate", func(t *testing.T) { testUpdateClearDueDate(t, newStore(t)) })
	t.Run("ManyConcurrentUpdates", func(t *testing.T) { testManyConcurrentUpdates(t, newStore(t)) })
	t.Run("HealthCheck", func(t *testing.T) { assert.NoError(t, newStore(t).HealthCheck(context.Background())) })
}

func create(t *testing.T, s Store, title string, prio task.Priority) *task.Task {
	t.Helper()
	tk := &task.Task{Title: title, Description: title + " description", Priority: prio}
	require.NoError(t, s.Create(context.Background(), tk))
	return tk
}

func testCreate(t *testing.T, s Store) {
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	tk := &task.Task{Title: "Deploy infrastructure", Description: "terraform", DueDate: &due}
	require.NoError(t, s.Create(ctx, tk))

	assert.NotZero(t, tk.ID)
	assert.False(t, tk.CreatedAt.IsZero())
	assert.True(t, tk.CreatedAt.Equal(tk.UpdatedAt), "created_at и updated_at должны совпадать при создании")
	assert.Equal(t, task.PriorityMedium, tk.Priority)
	assert.False(t, tk.Completed)

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, got.ID)
	assert.Equal(t, "Deploy infrastructure", got.Title)
	assert.Equal(t, "terraform", got.Description)
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.False(t, got.Completed)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	if assert.NotNil(t, got.DueDate) {
		assert.True(t, due.Equal(*got.DueDate))
	}
}

func testIncreasingIDs(t *testing.T, s Store) {
	var prev int64
	for i := 0; i < 5; i++ {
		tk := create(t, s, fmt.Sprintf("task %d", i), task.PriorityLow)
		assert.Greater(t, tk.ID, prev)
		prev = tk.ID
	}
}

func testGetNotFound(t *testing.T, s Store) {
	_, err := s.GetByID(context.Background(), 424242)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func testListOrder(t *testing.T, s Store) {
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a := create(t, s, "A", task.PriorityLow)
	time.Sleep(5 * time.Millisecond)
	b := create(t, s, "B", task.PriorityMedium)
	time.Sleep(5 * time.Millisecond)
	c := create(t, s, "C", task.PriorityHigh)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func testUpdateCompleted(t *testing.T, s Store) {
	ctx := context.Background()
	tk := create(t, s, "Configure pipeline", task.PriorityHigh)
	time.Sleep(5 * time.Millisecond)

	done := true
	updated, err := s.Update(ctx, tk.ID, task.Patch{Completed: &done})
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, tk.Title, updated.Title)
	assert.Equal(t, tk.Description, updated.Description)
	assert.Equal(t, task.PriorityHigh, updated.Priority)
	assert.True(t, tk.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(tk.UpdatedAt))

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))
}

func testUpdateAll(t *testing.T, s Store) {
	ctx := context.Background()
	tk := create(t, s, "Monitoring", task.PriorityMedium)

	title := "Monitoring v2"
	desc := "dashboards"
	done := true
	prio := task.PriorityLow
	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)

	updated, err := s.Update(ctx, tk.ID, task.Patch{
		Title:       &title,
		Description: &desc,
		Completed:   &done,
		Priority:    &prio,
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "Monitoring v2", updated.Title)
	assert.Equal(t, "dashboards", updated.Description)
	assert.True(t, updated.Completed)
	assert.Equal(t, task.PriorityLow, updated.Priority)
	if assert.NotNil(t, updated.DueDate) {
		assert.True(t, due.Equal(*updated.DueDate))
	}
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func testUpdateEmpty(t *testing.T, s Store) {
	ctx := context.Background()
	tk := create(t, s, "Docs", task.PriorityLow)
	time.Sleep(5 * time.Millisecond)

	updated, err := s.Update(ctx, tk.ID, task.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "Docs", updated.Title)
	assert.True(t, updated.UpdatedAt.After(tk.UpdatedAt))
}

func testUpdateNotFound(t *testing.T, s Store) {
	done := true
	_, err := s.Update(context.Background(), 424242, task.Patch{Completed: &done})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func testDelete(t *testing.T, s Store) {
	ctx := context.Background()
	keep := create(t, s, "keep", task.PriorityLow)
	drop := create(t, s, "drop", task.PriorityLow)

	deleted, err := s.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetByID(ctx, drop.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	deleted, err = s.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.Delete(ctx, 424242)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := s.GetByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func testCount(t *testing.T, s Store) {
	ctx := context.Background()
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	create(t, s, "one", task.PriorityLow)
	create(t, s, "two", task.PriorityLow)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// разные поля одной задачи обновляются параллельно, ни одно изменение не должно потеряться
func testConcurrentUpdates(t *testing.T, s Store) {
	ctx := context.Background()
	tk := create(t, s, "race", task.PriorityLow)

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		done := true
		_, err := s.Update(ctx, tk.ID, task.Patch{Completed: &done})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		prio := task.PriorityHigh
		_, err := s.Update(ctx, tk.ID, task.Patch{Priority: &prio})
		errs <- err
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, "race", got.Title)
}

func testUpdateClearDueDate(t *testing.T, s Store) {
	ctx := context.Background()
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	tk := &task.Task{Title: "Renew certificate", DueDate: &due}
	require.NoError(t, s.Create(ctx, tk))

	// ClearDueDate сильнее переданной даты
	other := due.Add(time.Hour)
	updated, err := s.Update(ctx, tk.ID, task.Patch{DueDate: &other, ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "Renew certificate", updated.Title)

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

// одна задача, двадцать параллельных обновлений: ни одно не должно завершиться ошибкой
func testManyConcurrentUpdates(t *testing.T, s Store) {
	ctx := context.Background()
	tk := create(t, s, "hot row", task.PriorityLow)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			done := i%2 == 0
			_, err := s.Update(ctx, tk.ID, task.Patch{Completed: &done})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "hot row", got.Title)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}
