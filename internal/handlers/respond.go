package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"devblog/internal/logger"
	"devblog/internal/query"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"go.uber.org/zap"
)

// pagination: метаданные страницы в ответах списков.
type pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

func paginationOf[T any](res query.Result[T], page query.Page) pagination {
	return pagination{Total: res.Total, Limit: page.Limit, Offset: page.Offset, HasMore: res.HasMore}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return false
	}
	return true
}

// fail переводит ошибку сервиса в HTTP-ответ. Конфликт отдаётся как 409.
func fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	failWithConflict(w, r, message, err, http.StatusConflict)
}

// failWithConflict: то же, что fail, но со своим статусом для ErrConflict
// (часть эндпоинтов исторически отвечает на конфликт 400).
func failWithConflict(w http.ResponseWriter, r *http.Request, message string, err error, conflictStatus int) {
	log := logger.WithCtx(r.Context())

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn("Ошибка валидации", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		helpers.ErrorData(w, http.StatusBadRequest, verr.Error(), verr)
	case errors.Is(err, query.ErrInvalidArgument):
		log.Warn("Некорректный параметр", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, message, err.Error())
	case errors.Is(err, services.ErrNotFound):
		log.Info("Не найдено", zap.Error(err))
		helpers.Error(w, http.StatusNotFound, err.Error(), err.Error())
	case errors.Is(err, services.ErrConflict):
		log.Warn("Конфликт", zap.Error(err))
		helpers.Error(w, conflictStatus, message, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		log.Warn("Не авторизован", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, services.ErrForbidden):
		log.Warn("Доступ запрещён", zap.Error(err))
		helpers.Error(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		log.Error(message, zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, message, err.Error())
	}
}
