package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/notify"
	"taskManager/internal/objectstore"
	"time"

	"go.uber.org/zap"
)

type HealthChecker interface {
	HealthCheck(context.Context) error
}

// DiagnosticsHandler отвечает за /health и ручные проверки внешних сервисов
type DiagnosticsHandler struct {
	appName  string
	health   HealthChecker
	notifier notify.Notifier
	storage  objectstore.Store
	probeKey string
	now      func() time.Time
}

func NewDiagnosticsHandler(appName string, health HealthChecker, notifier notify.Notifier, storage objectstore.Store, probeKey string) *DiagnosticsHandler {
	if notifier == nil {
		notifier = notify.Disabled{}
	}
	if storage == nil {
		storage = objectstore.Disabled{}
	}
	return &DiagnosticsHandler{
		appName:  appName,
		health:   health,
		notifier: notifier,
		storage:  storage,
		probeKey: probeKey,
		now:      time.Now,
	}
}

func (d *DiagnosticsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	response := dto.HealthResponse{
		Status:            "healthy",
		App:               d.appName,
		NotifierAvailable: d.notifier.Available(),
		StorageAvailable:  d.storage.Available(),
	}

	if err := d.health.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		response.Status = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// NotifierProbe синхронно вызывает получателя уведомлений и возвращает его ответ
func (d *DiagnosticsHandler) NotifierProbe(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !d.notifier.Available() {
		responseWithError(w, http.StatusServiceUnavailable, "Notifier not available")
		return
	}

	result, err := d.notifier.Probe(r.Context(), map[string]string{"test": "diagnostics"})
	if err != nil {
		if errors.Is(err, notify.ErrUnavailable) {
			responseWithError(w, http.StatusServiceUnavailable, "Notifier not available")
			return
		}

		logger.Warn("HTTP: Проверка уведомлений не прошла",
			zap.String("notifier", d.notifier.Name()),
			zap.Error(err))

		responseWithJSON(w, http.StatusBadGateway,
			toPayload("notifier_test", "ERROR"),
			toPayload("error", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("notifier_test", "SUCCESS"),
		toPayload("notifier", d.notifier.Name()),
		toPayload("response", result),
	)
}

// StorageProbe пишет тестовый объект в бакет
func (d *DiagnosticsHandler) StorageProbe(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !d.storage.Available() {
		responseWithError(w, http.StatusServiceUnavailable, "Storage not available")
		return
	}

	body := fmt.Sprintf("diagnostic write - %s", d.now().UTC().Format(time.RFC3339))
	if err := d.storage.Put(r.Context(), d.probeKey, []byte(body)); err != nil {
		if errors.Is(err, objectstore.ErrUnavailable) {
			responseWithError(w, http.StatusServiceUnavailable, "Storage not available")
			return
		}

		logger.Warn("HTTP: Проверка хранилища не прошла",
			zap.String("bucket", d.storage.Bucket()),
			zap.Error(err))

		responseWithJSON(w, http.StatusBadGateway,
			toPayload("storage_test", "ERROR"),
			toPayload("error", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("storage_test", "SUCCESS"),
		toPayload("bucket", d.storage.Bucket()),
		toPayload("key", d.probeKey),
	)
}
