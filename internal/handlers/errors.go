package handlers

import (
	"context"
	"errors"
	"net/http"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

const (
	internalErrorMessage = "internal server error"
	timeoutErrorMessage  = "request timeout"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Message),
		toPayload("code", businessErr.Code),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// handleServiceError отвечает клиенту без внутренних подробностей ошибки
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		requestId := middleware.GetRequestID(r.Context())
		logger.Warn("HTTP: Таймаут операции",
			zap.String("operation", operation),
			zap.String("request_id", requestId),
			zap.Error(err))
		responseWithJSON(w, http.StatusGatewayTimeout,
			toPayload("error", timeoutErrorMessage),
			toPayload("request_id", requestId),
		)
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, internalErrorMessage)
}
