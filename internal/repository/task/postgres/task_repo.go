package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const taskColumns = `id, title, description, completed, priority, created_at, updated_at, due_date`

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	poolConfig.MinConns = cfg.MinConnections
	poolConfig.MaxConnIdleTime = cfg.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func warnIfSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.Priority,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DueDate,
	)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		t.DueDate = &due
	}
	return t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create", start)

	now := time.Now().UTC().Truncate(time.Microsecond)
	taskToCreate.Priority = taskToCreate.Priority.OrDefault()

	query := `INSERT INTO tasks
				(title, description, completed, priority, due_date, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $6)
				RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Completed,
		taskToCreate.Priority,
		taskToCreate.DueDate,
		now,
	).Scan(&taskToCreate.ID)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get_by_id", start)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("list", start)

	query := `SELECT ` + taskColumns + `
				FROM tasks
				ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return tasks, nil
}

// Update выполняется одним UPDATE: незаданные поля патча приходят как NULL и
// COALESCE оставляет текущее значение, поэтому параллельные патчи не затирают друг друга
func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("update", start)

	query := `UPDATE tasks
			SET title = COALESCE($1, title),
				description = COALESCE($2, description),
				completed = COALESCE($3, completed),
				priority = COALESCE($4, priority),
				due_date = CASE WHEN $8::boolean THEN NULL ELSE COALESCE($5, due_date) END,
				updated_at = GREATEST($6, created_at)
			WHERE id = $7
			RETURNING ` + taskColumns

	var priority *string
	if patch.Priority != nil {
		p := string(*patch.Priority)
		priority = &p
	}

	t, err := scanTask(s.pool.QueryRow(ctx, query,
		patch.Title,
		patch.Description,
		patch.Completed,
		priority,
		patch.DueDate,
		time.Now().UTC().Truncate(time.Microsecond),
		id,
		patch.ClearDueDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return t, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	defer warnIfSlow("delete", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("удаление задачи: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("подсчёт задач: %w", err)
	}
	return n, nil
}

// Truncate очищает таблицу; используется интеграционными тестами
func (s *Storage) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE tasks RESTART IDENTITY`)
	return err
}
