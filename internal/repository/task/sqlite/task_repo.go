package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// taskRow - строка таблицы tasks в формате gorm
type taskRow struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"not null;default:''"`
	Completed   bool       `gorm:"not null;default:false"`
	Priority    string     `gorm:"size:20;not null;default:'medium'"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_tasks_recent,priority:1,sort:desc"`
	UpdatedAt   time.Time  `gorm:"not null"`
	DueDate     *time.Time
}

func (taskRow) TableName() string {
	return "tasks"
}

func fromRow(r *taskRow) *task.Task {
	return &task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    task.Priority(r.Priority),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		DueDate:     utcPtr(r.DueDate),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type Storage struct {
	db *gorm.DB
}

// New открывает файл SQLite (или :memory:) и создаёт таблицы
func New(dsn string) (*Storage, error) {
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	gormLog, err := zap.NewStdLogAt(logger.Logger.Named("gorm"), zap.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("логгер gorm: %w", err)
	}
	dbLogger := gormlogger.New(
		gormLog,
		gormlogger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		logger.Error("Repository: Ошибка открытия SQLite", err)
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		// каждое соединение к :memory: получает свою базу
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("получение sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&taskRow{}, &user.User{}); err != nil {
		logger.Error("Repository: Ошибка миграции SQLite", err)
		return nil, fmt.Errorf("миграция sqlite: %w", err)
	}

	logger.Info("Repository: SQLite готова", zap.String("dsn", dsn))
	return &Storage{db: db}, nil
}

// ensureDirForSQLite создаёт каталог для файла базы, если его нет
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание каталога %q: %w", dir, err)
	}
	return nil
}

func (s *Storage) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
	logger.Info("Repository: Закрытие соединения SQLite")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("получение sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	row := &taskRow{
		Title:       taskToCreate.Title,
		Description: taskToCreate.Description,
		Completed:   taskToCreate.Completed,
		Priority:    string(taskToCreate.Priority.OrDefault()),
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     utcPtr(taskToCreate.DueDate),
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return fmt.Errorf("добавление задачи: %w", err)
	}

	*taskToCreate = *fromRow(row)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	var row taskRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return fromRow(&row), nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	var rows []taskRow
	err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&rows).Error
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks := make([]*task.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, fromRow(&rows[i]))
	}
	return tasks, nil
}

// Update меняет только поля из патча одним UPDATE без предварительного чтения,
// иначе две параллельные транзакции упираются в блокировку файла
func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	changes := map[string]any{"updated_at": gorm.Expr("MAX(?, created_at)", now)}
	if patch.Title != nil {
		changes["title"] = *patch.Title
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.Completed != nil {
		changes["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		changes["priority"] = string(*patch.Priority)
	}
	if patch.ClearDueDate {
		changes["due_date"] = nil
	} else if patch.DueDate != nil {
		changes["due_date"] = patch.DueDate.UTC()
	}

	res := s.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		logger.Error("Repository: Не удалось обновить задачу", res.Error, zap.Int64("task_id", id))
		return nil, fmt.Errorf("обновление задачи: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repo.ErrNotFound
	}

	var row taskRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось прочитать обновлённую задачу", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return fromRow(&row), nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&taskRow{}, id)
	if res.Error != nil {
		logger.Error("Repository: Удаление задачи", res.Error)
		return false, fmt.Errorf("удаление задачи: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("подсчёт задач: %w", err)
	}
	return int(n), nil
}
