package dto

import (
	"bytes"
	"encoding/json"
	"taskManager/internal/models/task"
	"time"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"max=10000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// OptionalTime отличает отсутствующее поле от явного null
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var value time.Time
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// UpdateTaskRequest - отсутствующее поле означает "не менять", "due_date": null снимает срок
type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description" validate:"omitempty,max=10000"`
	Completed   *bool        `json:"completed"`
	Priority    *string      `json:"priority"`
	DueDate     OptionalTime `json:"due_date"`
}

func (r UpdateTaskRequest) ToPatch() task.Patch {
	patch := task.Patch{
		Title:        r.Title,
		Description:  r.Description,
		Completed:    r.Completed,
		DueDate:      r.DueDate.Value,
		ClearDueDate: r.DueDate.Set && r.DueDate.Value == nil,
	}
	if r.Priority != nil {
		p := task.Priority(*r.Priority)
		patch.Priority = &p
	}
	return patch
}

type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueDate:     t.DueDate,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type HealthResponse struct {
	Status            string `json:"status"`
	App               string `json:"app"`
	NotifierAvailable bool   `json:"notifier_available"`
	StorageAvailable  bool   `json:"storage_available"`
}
