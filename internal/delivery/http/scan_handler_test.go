package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/export"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/usecase/recognition"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockScanService - мок для сервиса распознавания
type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) ScanImage(ctx context.Context, userID *uuid.UUID, req *recognition.ScanImageRequest) (*recognition.ScanResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recognition.ScanResult), args.Error(1)
}

func (m *MockScanService) GetScans(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*domain.Scan, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scan), args.Error(1)
}

func (m *MockScanService) GetScanByID(ctx context.Context, id uuid.UUID, viewer recognition.Viewer) (*domain.Scan, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scan), args.Error(1)
}

func (m *MockScanService) ExportScans(ctx context.Context, userID *uuid.UUID, limit int) ([]byte, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func userIs(id uuid.UUID) interface{} {
	return mock.MatchedBy(func(u *uuid.UUID) bool { return u != nil && *u == id })
}

func TestScanHandler_ScanImage(t *testing.T) {
	userID := uuid.New()
	scanID := uuid.New()

	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*MockScanService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "номер найден",
			body: recognition.ScanImageRequest{ImageBase64: "aW1n", Source: domain.SourceCamera},
			mockSetup: func(m *MockScanService) {
				m.On("ScanImage", mock.Anything, userIs(userID), mock.AnythingOfType("*recognition.ScanImageRequest")).
					Return(&recognition.ScanResult{
						ScanID:  &scanID,
						Engine:  "http",
						RawText: "BRASIL ABC1D23",
						Plates: []recognition.PlateView{
							recognition.NewPlateView(domain.ValidatePlate("ABC1D23")),
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, scanID.String(), data["scan_id"])
				plates := data["plates"].([]interface{})
				require.Len(t, plates, 1)
				assert.Equal(t, "ABC-1D23", plates[0].(map[string]interface{})["formatted"])
			},
		},
		{
			name: "сбой OCR не является ошибкой запроса",
			body: recognition.ScanImageRequest{ImageBase64: "aW1n"},
			mockSetup: func(m *MockScanService) {
				m.On("ScanImage", mock.Anything, userIs(userID), mock.AnythingOfType("*recognition.ScanImageRequest")).
					Return(&recognition.ScanResult{
						Engine:    "http",
						Plates:    []recognition.PlateView{},
						OCRFailed: true,
						Notice:    recognition.NoticeOCRFailed,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, true, data["ocr_failed"])
				assert.Equal(t, recognition.NoticeOCRFailed, data["notice"])
				assert.Empty(t, data["plates"])
			},
		},
		{
			name: "невалидное изображение",
			body: recognition.ScanImageRequest{ImageBase64: "!!!"},
			mockSetup: func(m *MockScanService) {
				m.On("ScanImage", mock.Anything, userIs(userID), mock.AnythingOfType("*recognition.ScanImageRequest")).
					Return(nil, domain.ErrInvalidImage)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse:  AssertError,
		},
		{
			name:           "тело больше лимита",
			body:           recognition.ScanImageRequest{ImageBase64: strings.Repeat("A", 4096)},
			mockSetup:      func(m *MockScanService) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
			checkResponse:  AssertError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			tt.mockSetup(mockService)
			handler := NewScanHandler(mockService, 1024, logger.NewNoop())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", encodeBody(t, tt.body))
			req = req.WithContext(CreateAuthContext(t, userID, "guard@example.com", domain.RoleGuard))
			w := httptest.NewRecorder()

			handler.ScanImage(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decodeResponse(t, w))
			mockService.AssertExpectations(t)
		})
	}
}

func TestScanHandler_GetMyScans(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockScanService)
	mockService.On("GetScans", mock.Anything, userIs(userID), 10, 20).
		Return([]*domain.Scan{{ID: uuid.New(), UserID: &userID, Plates: []domain.LicensePlate{}}}, nil)
	handler := NewScanHandler(mockService, 1024, logger.NewNoop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/me?limit=10&offset=20", nil)
	req = req.WithContext(CreateAuthContext(t, userID, "user@example.com", domain.RoleUser))
	w := httptest.NewRecorder()
	handler.GetMyScans(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 1)
	mockService.AssertExpectations(t)
}

func TestScanHandler_GetScans(t *testing.T) {
	mockService := new(MockScanService)
	mockService.On("GetScans", mock.Anything, (*uuid.UUID)(nil), 0, 0).Return([]*domain.Scan{}, nil)
	handler := NewScanHandler(mockService, 1024, logger.NewNoop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans?limit=abc", nil)
	w := httptest.NewRecorder()
	handler.GetScans(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestScanHandler_GetScan(t *testing.T) {
	userID := uuid.New()
	scanID := uuid.New()
	viewer := recognition.Viewer{UserID: userID, Role: domain.RoleUser}

	t.Run("своя запись", func(t *testing.T) {
		mockService := new(MockScanService)
		mockService.On("GetScanByID", mock.Anything, scanID, viewer).
			Return(&domain.Scan{ID: scanID, UserID: &userID, Plates: []domain.LicensePlate{}}, nil)
		handler := NewScanHandler(mockService, 1024, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+scanID.String(), nil)
		req = withURLParam(req.WithContext(CreateAuthContext(t, userID, "u@example.com", domain.RoleUser)), "id", scanID.String())
		w := httptest.NewRecorder()
		handler.GetScan(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("чужая запись", func(t *testing.T) {
		mockService := new(MockScanService)
		mockService.On("GetScanByID", mock.Anything, scanID, viewer).Return(nil, domain.ErrForbidden)
		handler := NewScanHandler(mockService, 1024, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+scanID.String(), nil)
		req = withURLParam(req.WithContext(CreateAuthContext(t, userID, "u@example.com", domain.RoleUser)), "id", scanID.String())
		w := httptest.NewRecorder()
		handler.GetScan(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("не найдена", func(t *testing.T) {
		mockService := new(MockScanService)
		mockService.On("GetScanByID", mock.Anything, scanID, viewer).Return(nil, domain.ErrScanNotFound)
		handler := NewScanHandler(mockService, 1024, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+scanID.String(), nil)
		req = withURLParam(req.WithContext(CreateAuthContext(t, userID, "u@example.com", domain.RoleUser)), "id", scanID.String())
		w := httptest.NewRecorder()
		handler.GetScan(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestScanHandler_ExportScans(t *testing.T) {
	userID := uuid.New()
	payload := []byte("PK\x03\x04xlsx")

	tests := []struct {
		name           string
		role           domain.UserRole
		query          string
		expectUser     interface{}
		expectedStatus int
	}{
		{"охранник по умолчанию выгружает все", domain.RoleGuard, "", (*uuid.UUID)(nil), http.StatusOK},
		{"охранник выгружает свои", domain.RoleGuard, "?scope=me", userIs(userID), http.StatusOK},
		{"без view_all_scans по умолчанию только свои", domain.RoleUser, "", userIs(userID), http.StatusOK},
		{"без view_all_scans scope=all запрещен", domain.RoleUser, "?scope=all", nil, http.StatusForbidden},
		{"неизвестный scope", domain.RoleAdmin, "?scope=team", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			if tt.expectUser != nil {
				mockService.On("ExportScans", mock.Anything, tt.expectUser, 0).Return(payload, nil)
			}
			handler := NewScanHandler(mockService, 1024, logger.NewNoop())
			handler.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

			req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/export"+tt.query, nil)
			req = req.WithContext(CreateAuthContext(t, userID, "x@example.com", tt.role))
			w := httptest.NewRecorder()
			handler.ExportScans(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
				assert.Contains(t, w.Header().Get("Content-Disposition"), "leituras-20260301.xlsx")
				assert.True(t, bytes.Equal(payload, w.Body.Bytes()))
			}
			mockService.AssertExpectations(t)
		})
	}
}
