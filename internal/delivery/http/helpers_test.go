package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/platescan/internal/delivery/http/middleware"
	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateTestUser создает тестового пользователя
func CreateTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    email,
		FullName: "Test User",
		Phone:    "+55 11 99999-9999",
		Role:     role,
		IsActive: true,
	}
}

// CreateTestVehicle создает тестовый автомобиль
func CreateTestVehicle(id, ownerID uuid.UUID, licensePlate string) *domain.Vehicle {
	plate := domain.ValidatePlate(licensePlate)
	return &domain.Vehicle{
		ID:           id,
		OwnerID:      ownerID,
		LicensePlate: plate.Text,
		PlateType:    plate.Type,
		VehicleType:  domain.VehicleTypeCar,
		Model:        "Fiat Uno",
		Color:        "Prata",
		IsActive:     true,
	}
}

// CreateAuthContext создает контекст с claims, как после AuthMiddleware
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole) context.Context {
	t.Helper()
	return middleware.WithUserClaims(context.Background(), &jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Kind:   jwt.TokenAccess,
	})
}

// withURLParam добавляет параметр маршрута chi к запросу
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse разбирает JSON ответ
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
