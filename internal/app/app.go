package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskManager/internal/cloud"
	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/migrations"
	"taskManager/internal/notify"
	"taskManager/internal/objectstore"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/postgres"
	"taskManager/internal/repository/task/sqlite"
	"taskManager/internal/service"
	"taskManager/internal/worker"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type repository interface {
	service.TaskRepository
	Close()
}

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository repository
	service    *service.TaskService
	notifier   notify.Notifier
	storage    objectstore.Store
	worker     *worker.NotifyWorker
	awsSession *session.Session
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		return err
	}

	if err := a.initNotifier(); err != nil {
		return err
	}

	if err := a.initStorage(); err != nil {
		return err
	}

	a.initWorker()

	a.service = service.NewTaskService(a.repository, a.worker)

	if a.config.Repository.SeedDemo {
		if _, err := a.service.SeedDemo(ctx); err != nil {
			return fmt.Errorf("заполнение демо-данными: %w", err)
		}
	}

	a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if err := migrations.Up(a.config.Database.URL); err != nil {
			return fmt.Errorf("применение миграций: %w", err)
		}

		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		a.repository = storage

	case config.RepositorySQLite:
		storage, err := sqlite.New(a.config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("открытие sqlite: %w", err)
		}
		a.repository = storage

	default:
		a.repository = inmemory.NewTaskStorage()
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие хранилища...")
		a.repository.Close()
	})

	logger.Info("Хранилище задач готово", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) session() (*session.Session, error) {
	if a.awsSession != nil {
		return a.awsSession, nil
	}

	sess, err := cloud.NewSession(a.config.AWS)
	if err != nil {
		return nil, err
	}
	a.awsSession = sess
	return sess, nil
}

func (a *App) initNotifier() error {
	cfg := a.config.Notifier

	switch cfg.Type {
	case config.NotifierLambda:
		sess, err := a.session()
		if err != nil {
			return fmt.Errorf("инициализация уведомлений: %w", err)
		}
		a.notifier = notify.NewLambdaNotifier(sess, cfg.FunctionName)

	case config.NotifierRedis:
		client, err := notify.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			// без уведомлений сервис продолжает работать, /health покажет notifier_available=false
			logger.Warn("Redis недоступен, уведомления отключены",
				zap.String("redis_addr", cfg.RedisAddr),
				zap.Error(err))
			a.notifier = notify.Disabled{}
			break
		}
		redisNotifier := notify.NewRedisNotifier(client, cfg.RedisChannel)
		a.shutdowns = append(a.shutdowns, redisNotifier.Close)
		a.notifier = redisNotifier

	default:
		a.notifier = notify.Disabled{}
	}

	logger.Info("Уведомления настроены", zap.String("notifier", a.notifier.Name()))
	return nil
}

func (a *App) initStorage() error {
	if a.config.Storage.Bucket == "" {
		a.storage = objectstore.Disabled{}
		return nil
	}

	sess, err := a.session()
	if err != nil {
		return fmt.Errorf("инициализация объектного хранилища: %w", err)
	}
	a.storage = objectstore.NewS3Store(sess, a.config.Storage.Bucket)

	logger.Info("Объектное хранилище настроено", zap.String("bucket", a.config.Storage.Bucket))
	return nil
}

// initWorker запускает доставку уведомлений с собственным контекстом, не связанным с запросами
func (a *App) initWorker() {
	queueSize := a.config.Notifier.QueueSize
	timeout := a.config.Notifier.Timeout
	a.worker = worker.NewNotifyWorker(a.notifier, &queueSize, &timeout)

	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.worker.Start(workerCtx)
	}()

	a.shutdowns = append(a.shutdowns, func() {
		cancel()
		<-done
	})
}

func (a *App) initRouter() {
	name := a.config.App.Name

	a.router = handlers.NewRouter(
		handlers.RouterConfig{
			RequestTimeout: a.config.Server.RequestTimeout,
			RateLimit:      a.config.Server.RateLimit,
			CORSOrigins:    a.config.Server.CORSOrigins,
		},
		handlers.NewTaskHandler(a.service),
		handlers.NewPageHandler(name, a.service),
		handlers.NewDiagnosticsHandler(name, a.service, a.notifier, a.storage, a.config.Storage.ProbeKey),
	)
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run блокируется до отмены ctx или падения сервера, затем останавливает сервер
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			a.Shutdown()
			return fmt.Errorf("запуск сервера: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Получен сигнал остановки")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	a.Shutdown()
	return nil
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
