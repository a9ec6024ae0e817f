package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/usecase/vehicle"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVehicleService - мок для vehicle service
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, licensePlate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

// TestVehicleHandler_CreateVehicle тестирует регистрацию автомобиля
func TestVehicleHandler_CreateVehicle(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		role           domain.UserRole
		requestBody    interface{}
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешное создание",
			role: domain.RoleUser,
			requestBody: vehicle.CreateVehicleRequest{
				LicensePlate: "abc-1d23",
				Model:        "Fiat Uno",
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.MatchedBy(func(r *vehicle.CreateVehicleRequest) bool {
					return r.OwnerID == userID
				})).Return(CreateTestVehicle(vehicleID, userID, "ABC1D23"), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, "ABC1D23", data["license_plate"])
				assert.Equal(t, "MERCOSUL", data["plate_type"])
			},
		},
		{
			name:           "чужой владелец без прав",
			role:           domain.RoleUser,
			requestBody:    vehicle.CreateVehicleRequest{OwnerID: otherID, LicensePlate: "ABC1234"},
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusForbidden,
			checkResponse:  AssertError,
		},
		{
			name:        "администратор регистрирует на другого",
			role:        domain.RoleAdmin,
			requestBody: vehicle.CreateVehicleRequest{OwnerID: otherID, LicensePlate: "ABC1234"},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(CreateTestVehicle(vehicleID, otherID, "ABC1234"), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse:  AssertSuccess,
		},
		{
			name:        "невалидный номер",
			role:        domain.RoleUser,
			requestBody: vehicle.CreateVehicleRequest{LicensePlate: "AB12345"},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(nil, domain.ErrInvalidLicensePlate)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse:  AssertError,
		},
		{
			name:        "дублирующийся номер",
			role:        domain.RoleUser,
			requestBody: vehicle.CreateVehicleRequest{LicensePlate: "ABC1234"},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(nil, domain.ErrVehicleAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			checkResponse:  AssertError,
		},
		{
			name:           "невалидный JSON",
			role:           domain.RoleUser,
			requestBody:    "invalid",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse:  AssertError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)
			handler := NewVehicleHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", encodeBody(t, tt.requestBody))
			req = req.WithContext(CreateAuthContext(t, userID, "test@example.com", tt.role))
			w := httptest.NewRecorder()

			handler.CreateVehicle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decodeResponse(t, w))
			mockService.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_GetMyVehicles тестирует получение автомобилей пользователя
func TestVehicleHandler_GetMyVehicles(t *testing.T) {
	userID := uuid.New()
	vehicles := []*domain.Vehicle{
		CreateTestVehicle(uuid.New(), userID, "ABC1234"),
		CreateTestVehicle(uuid.New(), userID, "XYZ9Z99"),
	}

	mockService := new(MockVehicleService)
	mockService.On("GetVehiclesByOwner", mock.Anything, userID).Return(vehicles, nil)
	handler := NewVehicleHandler(mockService, logger.NewNoop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/me", nil)
	req = req.WithContext(CreateAuthContext(t, userID, "test@example.com", domain.RoleUser))
	w := httptest.NewRecorder()
	handler.GetMyVehicles(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	AssertSuccess(t, resp)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
	mockService.AssertExpectations(t)
}

// TestVehicleHandler_GetVehicle тестирует получение автомобиля по ID
func TestVehicleHandler_GetVehicle(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		viewerID       uuid.UUID
		role           domain.UserRole
		param          string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
	}{
		{
			name:     "владелец",
			viewerID: ownerID,
			role:     domain.RoleUser,
			param:    vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByID", mock.Anything, vehicleID).
					Return(CreateTestVehicle(vehicleID, ownerID, "ABC1234"), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "охранник видит любой автомобиль",
			viewerID: strangerID,
			role:     domain.RoleGuard,
			param:    vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByID", mock.Anything, vehicleID).
					Return(CreateTestVehicle(vehicleID, ownerID, "ABC1234"), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "чужой автомобиль",
			viewerID: strangerID,
			role:     domain.RoleUser,
			param:    vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByID", mock.Anything, vehicleID).
					Return(CreateTestVehicle(vehicleID, ownerID, "ABC1234"), nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:     "не найден",
			viewerID: ownerID,
			role:     domain.RoleUser,
			param:    vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByID", mock.Anything, vehicleID).Return(nil, domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "невалидный ID",
			viewerID:       ownerID,
			role:           domain.RoleUser,
			param:          "not-a-uuid",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)
			handler := NewVehicleHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+tt.param, nil)
			req = req.WithContext(CreateAuthContext(t, tt.viewerID, "viewer@example.com", tt.role))
			req = withURLParam(req, "id", tt.param)
			w := httptest.NewRecorder()

			handler.GetVehicle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_GetVehicleByPlate(t *testing.T) {
	vehicleID := uuid.New()
	mockService := new(MockVehicleService)
	mockService.On("GetVehicleByLicensePlate", mock.Anything, "ABC-1234").
		Return(CreateTestVehicle(vehicleID, uuid.New(), "ABC1234"), nil)
	mockService.On("GetVehicleByLicensePlate", mock.Anything, "XX").
		Return(nil, domain.ErrInvalidLicensePlate)
	handler := NewVehicleHandler(mockService, logger.NewNoop())

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/plate/ABC-1234", nil), "plate", "ABC-1234")
	w := httptest.NewRecorder()
	handler.GetVehicleByPlate(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/plate/XX", nil), "plate", "XX")
	w = httptest.NewRecorder()
	handler.GetVehicleByPlate(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}
