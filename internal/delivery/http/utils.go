package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxJSONBody - ограничение тела для запросов без изображения
const maxJSONBody = 1 << 20

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondData отправляет успешный ответ в общем конверте
func respondData(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errorStatuses сопоставляет доменные ошибки с HTTP статусами
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidImage, http.StatusBadRequest},
	{domain.ErrInvalidSource, http.StatusBadRequest},
	{domain.ErrInvalidScanData, http.StatusBadRequest},
	{domain.ErrInvalidLicensePlate, http.StatusBadRequest},
	{domain.ErrInvalidVehicleData, http.StatusBadRequest},
	{domain.ErrInvalidEmail, http.StatusBadRequest},
	{domain.ErrInvalidPassword, http.StatusBadRequest},
	{domain.ErrInvalidUserData, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUserInactive, http.StatusForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrVehicleNotFound, http.StatusNotFound},
	{domain.ErrScanNotFound, http.StatusNotFound},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrUserAlreadyExists, http.StatusConflict},
	{domain.ErrVehicleAlreadyExists, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
}

// respondDomainError переводит ошибку сервиса в HTTP ответ; неизвестные ошибки логируются и скрываются
func respondDomainError(w http.ResponseWriter, log logger.Logger, err error, operation string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			respondError(w, e.status, e.err.Error())
			return
		}
	}

	log.Error("Failed to "+operation, map[string]interface{}{
		"error": err,
	})
	respondError(w, http.StatusInternalServerError, "Failed to "+operation)
}

// decodeJSON читает тело запроса не длиннее limit байт
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathUUID извлекает UUID из параметра маршрута chi
func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

// pagination читает limit/offset из query; некорректные значения заменяются нулями
func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
