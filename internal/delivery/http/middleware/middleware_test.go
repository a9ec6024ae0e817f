package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/jwt"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	user := &domain.User{ID: uuid.New(), Email: "guard@example.com", Role: domain.RoleGuard}
	pair, err := tokens.GenerateTokenPair(user)
	require.NoError(t, err)

	var seen *jwt.Claims
	handler := AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"валидный токен", "Bearer " + pair.AccessToken, http.StatusOK},
		{"схема в нижнем регистре", "bearer " + pair.AccessToken, http.StatusOK},
		{"нет заголовка", "", http.StatusUnauthorized},
		{"неверный формат", pair.AccessToken, http.StatusUnauthorized},
		{"refresh токен не принимается", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"мусор", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, user.ID, seen.UserID)
				assert.Equal(t, domain.RoleGuard, seen.Role)
			} else {
				assert.Nil(t, seen)
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name           string
		claims         *jwt.Claims
		capability     domain.Capability
		expectedStatus int
	}{
		{"без claims", nil, domain.CapabilityScanPlates, http.StatusUnauthorized},
		{"водитель сканирует", &jwt.Claims{Role: domain.RoleUser}, domain.CapabilityScanPlates, http.StatusOK},
		{"водитель не видит всю историю", &jwt.Claims{Role: domain.RoleUser}, domain.CapabilityViewAllScans, http.StatusForbidden},
		{"охранник выгружает", &jwt.Claims{Role: domain.RoleGuard}, domain.CapabilityExportScans, http.StatusOK},
		{"охранник не управляет пользователями", &jwt.Claims{Role: domain.RoleGuard}, domain.CapabilityManageAll, http.StatusForbidden},
		{"администратор", &jwt.Claims{Role: domain.RoleAdmin}, domain.CapabilityManageAll, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(WithUserClaims(req.Context(), tt.claims))
			}
			w := httptest.NewRecorder()

			RequireCapability(tt.capability)(http.HandlerFunc(okHandler)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(CORSConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})(http.HandlerFunc(okHandler))

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/scans", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("неизвестный origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := RecoveryMiddleware(logger.NewWriter(&buf, "error"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := LoggingMiddleware(logger.NewWriter(&buf, "debug"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/plates/validate", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/api/v1/plates/validate"`)
	assert.Contains(t, out, `"level":"warn"`)
}
