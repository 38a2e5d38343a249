package task_test

import (
	"testing"
	"time"

	"taskManager/internal/models/task"

	"github.com/stretchr/testify/assert"
)

func TestPriority_Valid(t *testing.T) {
	tests := []struct {
		priority task.Priority
		valid    bool
	}{
		{task.PriorityLow, true},
		{task.PriorityMedium, true},
		{task.PriorityHigh, true},
		{"", false},
		{"urgent", false},
		{"HIGH", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.priority.Valid())
		})
	}
}

func TestPriority_OrDefault(t *testing.T) {
	assert.Equal(t, task.PriorityMedium, task.Priority("").OrDefault())
	assert.Equal(t, task.PriorityLow, task.PriorityLow.OrDefault())
}

// TestPatch_Apply проверяет, что меняются только переданные поля
func TestPatch_Apply(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	original := &task.Task{
		ID:          7,
		Title:       "Deploy",
		Description: "use terraform",
		Priority:    task.PriorityLow,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	t.Run("only completed", func(t *testing.T) {
		tk := original.Clone()
		done := true
		task.Patch{Completed: &done}.Apply(tk)

		assert.True(t, tk.Completed)
		assert.Equal(t, "Deploy", tk.Title)
		assert.Equal(t, "use terraform", tk.Description)
		assert.Equal(t, task.PriorityLow, tk.Priority)
		assert.Nil(t, tk.DueDate)
	})

	t.Run("all fields", func(t *testing.T) {
		tk := original.Clone()
		title := "Deploy v2"
		desc := ""
		done := false
		prio := task.PriorityHigh
		due := created.Add(48 * time.Hour)
		task.Patch{Title: &title, Description: &desc, Completed: &done, Priority: &prio, DueDate: &due}.Apply(tk)

		assert.Equal(t, "Deploy v2", tk.Title)
		assert.Equal(t, "", tk.Description)
		assert.Equal(t, task.PriorityHigh, tk.Priority)
		if assert.NotNil(t, tk.DueDate) {
			assert.True(t, due.Equal(*tk.DueDate))
		}
		assert.Equal(t, created, tk.CreatedAt)
	})

	t.Run("empty patch", func(t *testing.T) {
		tk := original.Clone()
		p := task.Patch{}
		assert.True(t, p.IsEmpty())
		p.Apply(tk)
		assert.Equal(t, original, tk)
	})

	t.Run("clear due date", func(t *testing.T) {
		tk := original.Clone()
		due := created.Add(24 * time.Hour)
		tk.DueDate = &due

		p := task.Patch{ClearDueDate: true}
		assert.False(t, p.IsEmpty())
		p.Apply(tk)
		assert.Nil(t, tk.DueDate)
		assert.Equal(t, "Deploy", tk.Title)
	})
}

func TestTask_Clone(t *testing.T) {
	due := time.Now()
	tk := &task.Task{ID: 1, Title: "a", DueDate: &due}
	c := tk.Clone()

	assert.Equal(t, tk, c)
	assert.NotSame(t, tk.DueDate, c.DueDate)
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []*task.Task
		expected task.Stats
	}{
		{
			name:     "empty list",
			tasks:    nil,
			expected: task.Stats{},
		},
		{
			name: "mixed tasks",
			tasks: []*task.Task{
				{ID: 1, Priority: task.PriorityHigh, Completed: true},
				{ID: 2, Priority: task.PriorityHigh},
				{ID: 3, Priority: task.PriorityMedium},
				{ID: 4, Priority: task.PriorityLow, Completed: true},
				{ID: 5, Priority: task.PriorityHigh},
			},
			expected: task.Stats{Total: 5, Completed: 2, Pending: 3, HighPriority: 2},
		},
		{
			name: "all completed high",
			tasks: []*task.Task{
				{ID: 1, Priority: task.PriorityHigh, Completed: true},
				{ID: 2, Priority: task.PriorityHigh, Completed: true},
			},
			expected: task.Stats{Total: 2, Completed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := task.ComputeStats(tt.tasks)
			assert.Equal(t, tt.expected, stats)
			assert.Equal(t, stats.Total, stats.Completed+stats.Pending)
		})
	}
}
