// Package notify отправляет события о задачах во внешние системы (функция AWS Lambda или канал Redis).
// Отправка всегда best-effort: вызывающий код не зависит от её результата.
package notify

import (
	"context"
	"encoding/json"
	"errors"
)

const ActionCreated = "created"

// ErrUnavailable - получатель не настроен или недоступен
var ErrUnavailable = errors.New("notifier is not available")

type Event struct {
	TaskID int64  `json:"task_id"`
	Action string `json:"action"`
	Title  string `json:"title"`
}

type Notifier interface {
	// Notify отправляет событие без ожидания ответа получателя
	Notify(ctx context.Context, event Event) error
	// Probe синхронно вызывает получателя и возвращает его ответ; используется для диагностики
	Probe(ctx context.Context, payload any) (json.RawMessage, error)
	Available() bool
	Name() string
}

// Disabled используется, когда получатель не настроен
type Disabled struct{}

func (Disabled) Notify(context.Context, Event) error { return ErrUnavailable }

func (Disabled) Probe(context.Context, any) (json.RawMessage, error) { return nil, ErrUnavailable }

func (Disabled) Available() bool { return false }

func (Disabled) Name() string { return "none" }
