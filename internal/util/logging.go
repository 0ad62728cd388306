package util

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"token-generation/internal/model"
)

func LogError(message string, err error) error {
	zap.L().Error(message, zap.Error(err))
	return fmt.Errorf("%s: %w", message, err)
}

// StorageError : ошибка хранилища поколений.
// Логирует, отправляет в Sentry (если он инициализирован) и оборачивает
// одновременно model.ErrStorage и исходную ошибку драйвера.
func StorageError(message string, err error) error {
	zap.L().Error(message, zap.Error(err))
	sentry.CaptureException(err)
	return fmt.Errorf("%w: %s: %w", model.ErrStorage, message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		zap.L().Warn("ошибка кодирования ответа", zap.Error(err))
	}
}
