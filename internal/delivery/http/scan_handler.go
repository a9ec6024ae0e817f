package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/platescan/internal/delivery/http/middleware"
	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/export"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/usecase/recognition"
	"github.com/google/uuid"
)

// ScanService определяет интерфейс сервиса распознавания
type ScanService interface {
	ScanImage(ctx context.Context, userID *uuid.UUID, req *recognition.ScanImageRequest) (*recognition.ScanResult, error)
	GetScans(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*domain.Scan, error)
	GetScanByID(ctx context.Context, id uuid.UUID, viewer recognition.Viewer) (*domain.Scan, error)
	ExportScans(ctx context.Context, userID *uuid.UUID, limit int) ([]byte, error)
}

// ScanHandler обрабатывает распознавание изображений и историю
type ScanHandler struct {
	scanService  ScanService
	maxImageSize int64
	logger       logger.Logger
	now          func() time.Time
}

// NewScanHandler создает новый handler; maxImageSize ограничивает тело POST /scans
func NewScanHandler(scanService ScanService, maxImageSize int64, logger logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanService:  scanService,
		maxImageSize: maxImageSize,
		logger:       logger,
		now:          time.Now,
	}
}

// ScanImage распознает номера на изображении.
// Сбой OCR возвращается со статусом 200 и ocr_failed=true.
// POST /api/v1/scans
func (h *ScanHandler) ScanImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req recognition.ScanImageRequest
	if !decodeJSON(w, r, h.maxImageSize, &req) {
		return
	}

	userID := claims.UserID
	result, err := h.scanService.ScanImage(r.Context(), &userID, &req)
	if err != nil {
		respondDomainError(w, h.logger, err, "scan image")
		return
	}

	respondData(w, http.StatusOK, result)
}

// GetMyScans возвращает историю текущего пользователя
// GET /api/v1/scans/me
func (h *ScanHandler) GetMyScans(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := pagination(r)
	userID := claims.UserID
	scans, err := h.scanService.GetScans(r.Context(), &userID, limit, offset)
	if err != nil {
		respondDomainError(w, h.logger, err, "get scans")
		return
	}

	respondData(w, http.StatusOK, scans)
}

// GetScans возвращает историю всех пользователей
// GET /api/v1/scans
func (h *ScanHandler) GetScans(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	scans, err := h.scanService.GetScans(r.Context(), nil, limit, offset)
	if err != nil {
		respondDomainError(w, h.logger, err, "get scans")
		return
	}

	respondData(w, http.StatusOK, scans)
}

// GetScan возвращает одну запись истории
// GET /api/v1/scans/{id}
func (h *ScanHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	scanID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid scan ID")
		return
	}

	scan, err := h.scanService.GetScanByID(r.Context(), scanID, recognition.Viewer{
		UserID: claims.UserID,
		Role:   claims.Role,
	})
	if err != nil {
		respondDomainError(w, h.logger, err, "get scan")
		return
	}

	respondData(w, http.StatusOK, scan)
}

// ExportScans выгружает историю в xlsx.
// scope=me выгружает только свои записи; по умолчанию роль с view_all_scans получает все.
// GET /api/v1/scans/export
func (h *ScanHandler) ExportScans(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var userID *uuid.UUID
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "all":
		if !claims.Can(domain.CapabilityViewAllScans) {
			if scope == "all" {
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			id := claims.UserID
			userID = &id
		}
	case "me":
		id := claims.UserID
		userID = &id
	default:
		respondError(w, http.StatusBadRequest, "Invalid scope")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := h.scanService.ExportScans(r.Context(), userID, limit)
	if err != nil {
		respondDomainError(w, h.logger, err, "export scans")
		return
	}

	filename := fmt.Sprintf("leituras-%s.xlsx", h.now().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
