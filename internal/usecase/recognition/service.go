package recognition

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/infrastructure/ocr"
	"github.com/frontandrew/platescan/internal/pkg/export"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/pkg/metrics"
	"github.com/frontandrew/platescan/internal/repository"
	"github.com/google/uuid"
)

// Сообщения для пользователя
const (
	NoticeOCRFailed = "Não foi possível processar a imagem"
	NoticeNoPlates  = "Nenhuma placa detectada"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
	// MaxExportRows - ограничение на количество записей в выгрузке
	MaxExportRows = 10000
)

// ImageStore сохраняет исходные изображения (реализуется storage.R2Client)
type ImageStore interface {
	UploadScanImage(ctx context.Context, digest string, data []byte, at time.Time) (string, error)
}

// Recorder учитывает метрики распознавания (реализуется *metrics.Metrics)
type Recorder interface {
	RecordScan(engine, outcome string)
	RecordPlate(plateType string)
	ObserveOCR(engine string, duration time.Duration, err error)
}

// Options - необязательные зависимости сервиса
type Options struct {
	Cache    repository.ScanCache
	CacheTTL time.Duration
	Store    ImageStore
	Metrics  Recorder
}

// ScanImageRequest - запрос на распознавание изображения
type ScanImageRequest struct {
	ImageBase64      string             `json:"image_base64"`
	Source           domain.ImageSource `json:"source,omitempty"`
	CorrectOCRErrors bool               `json:"correct_ocr_errors,omitempty"`
}

// ExtractRequest - запрос на поиск номеров в тексте
type ExtractRequest struct {
	Text             string `json:"text"`
	CorrectOCRErrors bool   `json:"correct_ocr_errors,omitempty"`
}

// PlateView - номер в виде для отображения
type PlateView struct {
	Text       string           `json:"text"`
	Formatted  string           `json:"formatted"`
	Type       domain.PlateType `json:"type"`
	TypeLabel  string           `json:"type_label"`
	IsValid    bool             `json:"is_valid"`
	Registered bool             `json:"registered"`
	VehicleID  *uuid.UUID       `json:"vehicle_id,omitempty"`
}

// ScanResult - результат распознавания изображения
type ScanResult struct {
	ScanID            *uuid.UUID  `json:"scan_id,omitempty"`
	Engine            string      `json:"engine"`
	RawText           string      `json:"raw_text"`
	Plates            []PlateView `json:"plates"`
	OCRFailed         bool        `json:"ocr_failed"`
	CorrectionApplied bool        `json:"correction_applied"`
	Cached            bool        `json:"cached"`
	ImageURL          string      `json:"image_url,omitempty"`
	Notice            string      `json:"notice,omitempty"`
	ProcessingTimeMs  int64       `json:"processing_time_ms"`
}

// Viewer - кто запрашивает историю
type Viewer struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// Service связывает OCR движок с извлечением и проверкой номеров
type Service struct {
	engine      ocr.Engine
	scanRepo    repository.ScanRepository
	vehicleRepo repository.VehicleRepository
	cache       repository.ScanCache
	cacheTTL    time.Duration
	store       ImageStore
	metrics     Recorder
	logger      logger.Logger
	now         func() time.Time
}

// NewService создает сервис распознавания
func NewService(
	engine ocr.Engine,
	scanRepo repository.ScanRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
	opts Options,
) *Service {
	s := &Service{
		engine:      engine,
		scanRepo:    scanRepo,
		vehicleRepo: vehicleRepo,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		store:       opts.Store,
		metrics:     opts.Metrics,
		logger:      logger,
		now:         time.Now,
	}
	if s.metrics == nil {
		s.metrics = (*metrics.Metrics)(nil)
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = 10 * time.Minute
	}
	return s
}

// ScanImage распознает номера на изображении.
// Ошибка OCR не возвращается как ошибка: результат помечается ocr_failed и сохраняется в историю.
func (s *Service) ScanImage(ctx context.Context, userID *uuid.UUID, req *ScanImageRequest) (*ScanResult, error) {
	start := s.now()

	image, err := decodeImage(req.ImageBase64)
	if err != nil {
		return nil, err
	}

	scan := &domain.Scan{
		UserID:            userID,
		Source:            req.Source,
		Engine:            s.engine.Name(),
		CorrectionApplied: req.CorrectOCRErrors,
	}
	if err := scan.Validate(); err != nil {
		return nil, err
	}

	digest := sha256.Sum256(image)
	imageHash := hex.EncodeToString(digest[:])
	cacheKey := cacheKey(imageHash, req.CorrectOCRErrors)

	log := s.logger.With("image_hash", imageHash[:12])
	log.Info("Scanning image", map[string]interface{}{
		"source":     scan.Source,
		"engine":     scan.Engine,
		"size":       len(image),
		"correction": req.CorrectOCRErrors,
	})

	result := &ScanResult{
		Engine:            scan.Engine,
		CorrectionApplied: req.CorrectOCRErrors,
	}

	outcome := ""
	if entry, ok := s.cacheLookup(ctx, cacheKey); ok {
		if entry.Engine != "" {
			scan.Engine = entry.Engine
		}
		scan.RawText = entry.RawText
		scan.Plates = entry.Plates
		result.Engine = scan.Engine
		result.Cached = true
		outcome = metrics.OutcomeCached
	} else {
		ocrStart := s.now()
		ocrResult, err := s.engine.Recognize(ctx, image)
		s.metrics.ObserveOCR(scan.Engine, s.now().Sub(ocrStart), err)

		if err != nil {
			log.Error("OCR failed", map[string]interface{}{
				"error": err,
			})
			scan.OCRFailed = true
			scan.Plates = []domain.LicensePlate{}
			outcome = metrics.OutcomeFailed
		} else {
			scan.RawText, scan.Plates = ReadPlates(ocrResult.Texts(), req.CorrectOCRErrors)

			s.cacheStore(ctx, cacheKey, &repository.CachedRecognition{
				Engine:  scan.Engine,
				RawText: scan.RawText,
				Plates:  scan.Plates,
			})
		}

		if s.store != nil {
			url, err := s.store.UploadScanImage(ctx, imageHash, image, start)
			if err != nil {
				log.Warn("Failed to archive image", map[string]interface{}{
					"error": err,
				})
			} else {
				scan.ImageURL = url
			}
		}
	}

	result.RawText = scan.RawText
	result.OCRFailed = scan.OCRFailed
	result.ImageURL = scan.ImageURL
	result.Plates = s.enrich(ctx, scan.Plates)

	switch {
	case scan.OCRFailed:
		result.Notice = NoticeOCRFailed
	case len(result.Plates) == 0:
		result.Notice = NoticeNoPlates
	}

	if outcome == "" {
		outcome = metrics.OutcomeNoPlates
		if scan.HasPlates() {
			outcome = metrics.OutcomePlates
		}
	}
	s.metrics.RecordScan(scan.Engine, outcome)
	for _, p := range scan.Plates {
		s.metrics.RecordPlate(string(p.Type))
	}

	if err := s.scanRepo.Create(ctx, scan); err != nil {
		log.Error("Failed to save scan", map[string]interface{}{
			"error": err,
		})
	} else {
		id := scan.ID
		result.ScanID = &id
	}

	result.ProcessingTimeMs = s.now().Sub(start).Milliseconds()

	log.Info("Image scanned", map[string]interface{}{
		"plates":     len(result.Plates),
		"ocr_failed": result.OCRFailed,
		"cached":     result.Cached,
		"elapsed_ms": result.ProcessingTimeMs,
	})

	return result, nil
}

// ReadPlates склеивает блоки OCR через пробел, по запросу исправляет типичные ошибки
// и извлекает номера. Возвращает итоговый текст и номера в порядке появления.
func ReadPlates(blocks []string, correct bool) (string, []domain.LicensePlate) {
	text := domain.JoinTextBlocks(blocks)
	if correct {
		text = domain.CorrectOCRErrors(text)
	}
	return text, domain.ExtractPlates(text)
}

// ExtractFromText ищет номера в тексте. Регистрация автомобилей не проверяется.
func (s *Service) ExtractFromText(ctx context.Context, req *ExtractRequest) []PlateView {
	text := req.Text
	if req.CorrectOCRErrors {
		text = domain.CorrectOCRErrors(text)
	}
	plates := domain.ExtractPlates(text)

	views := make([]PlateView, 0, len(plates))
	for _, p := range plates {
		views = append(views, NewPlateView(p))
	}
	return views
}

// ValidatePlate проверяет один кандидат
func (s *Service) ValidatePlate(candidate string) PlateView {
	return NewPlateView(domain.ValidatePlate(candidate))
}

// CorrectText применяет замены типичных ошибок OCR
func (s *Service) CorrectText(text string) string {
	return domain.CorrectOCRErrors(text)
}

// GetScans возвращает историю; userID == nil означает все записи
func (s *Service) GetScans(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*domain.Scan, error) {
	limit, offset = clampPage(limit, offset)
	if userID == nil {
		return s.scanRepo.List(ctx, limit, offset)
	}
	return s.scanRepo.GetByUserID(ctx, *userID, limit, offset)
}

// GetScanByID возвращает запись, если она принадлежит viewer или его роль видит все записи
func (s *Service) GetScanByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*domain.Scan, error) {
	scan, err := s.scanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewer.Role.Can(domain.CapabilityViewAllScans) {
		return scan, nil
	}
	if scan.UserID != nil && *scan.UserID == viewer.UserID {
		return scan, nil
	}
	return nil, domain.ErrForbidden
}

// ExportScans выгружает историю в xlsx; userID == nil означает все записи
func (s *Service) ExportScans(ctx context.Context, userID *uuid.UUID, limit int) ([]byte, error) {
	if limit <= 0 || limit > MaxExportRows {
		limit = MaxExportRows
	}

	var scans []*domain.Scan
	var err error
	if userID == nil {
		scans, err = s.scanRepo.List(ctx, limit, 0)
	} else {
		scans, err = s.scanRepo.GetByUserID(ctx, *userID, limit, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scans: %w", err)
	}

	var buf bytes.Buffer
	if err := export.ScansToXLSX(&buf, scans); err != nil {
		return nil, fmt.Errorf("failed to export scans: %w", err)
	}

	s.logger.Info("Scans exported", map[string]interface{}{
		"rows": len(scans),
	})
	return buf.Bytes(), nil
}

// Health проверяет OCR движок
func (s *Service) Health(ctx context.Context) error {
	return s.engine.Health(ctx)
}

// NewPlateView строит представление номера без данных о регистрации
func NewPlateView(p domain.LicensePlate) PlateView {
	return PlateView{
		Text:      p.Text,
		Formatted: p.Formatted(),
		Type:      p.Type,
		TypeLabel: p.Type.Label(),
		IsValid:   p.IsValid,
	}
}

// enrich добавляет к номерам данные о зарегистрированных автомобилях
func (s *Service) enrich(ctx context.Context, plates []domain.LicensePlate) []PlateView {
	views := make([]PlateView, 0, len(plates))
	for _, p := range plates {
		view := NewPlateView(p)

		vehicle, err := s.vehicleRepo.GetByLicensePlate(ctx, p.Text)
		switch {
		case err == nil && vehicle != nil:
			id := vehicle.ID
			view.Registered = true
			view.VehicleID = &id
		case err != nil && !errors.Is(err, domain.ErrVehicleNotFound):
			s.logger.Warn("Vehicle lookup failed", map[string]interface{}{
				"license_plate": p.Text,
				"error":         err,
			})
		}

		views = append(views, view)
	}
	return views
}

func (s *Service) cacheLookup(ctx context.Context, key string) (*repository.CachedRecognition, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Scan cache unavailable", map[string]interface{}{
			"error": err,
		})
		return nil, false
	}
	return entry, hit
}

func (s *Service) cacheStore(ctx context.Context, key string, entry *repository.CachedRecognition) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, entry, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache scan", map[string]interface{}{
			"error": err,
		})
	}
}

func cacheKey(imageHash string, corrected bool) string {
	if corrected {
		return imageHash + ":corrected"
	}
	return imageHash + ":raw"
}

// decodeImage принимает base64 (в том числе data URL) и проверяет, что это изображение
func decodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	if encoded == "" {
		return nil, domain.ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, domain.ErrInvalidImage
		}
	}
	if len(data) == 0 || !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, domain.ErrInvalidImage
	}
	return data, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
