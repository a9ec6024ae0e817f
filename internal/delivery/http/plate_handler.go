package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/usecase/recognition"
)

// PlateService - чистые операции над номерами, без OCR и хранения
type PlateService interface {
	ValidatePlate(candidate string) recognition.PlateView
	ExtractFromText(ctx context.Context, req *recognition.ExtractRequest) []recognition.PlateView
	CorrectText(text string) string
}

// PlateHandler обрабатывает проверку, поиск и коррекцию номеров в тексте
type PlateHandler struct {
	plateService PlateService
	logger       logger.Logger
}

// NewPlateHandler создает новый handler
func NewPlateHandler(plateService PlateService, logger logger.Logger) *PlateHandler {
	return &PlateHandler{
		plateService: plateService,
		logger:       logger,
	}
}

// ValidateRequest - запрос на проверку кандидата
type ValidateRequest struct {
	Candidate string `json:"candidate"`
}

// CorrectRequest - запрос на коррекцию текста
type CorrectRequest struct {
	Text string `json:"text"`
}

// Validate проверяет одну строку-кандидат.
// Невалидный номер не является ошибкой запроса: ответ 200 с is_valid=false.
// POST /api/v1/plates/validate
func (h *PlateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	respondData(w, http.StatusOK, h.plateService.ValidatePlate(req.Candidate))
}

// Extract ищет номера в произвольном тексте
// POST /api/v1/plates/extract
func (h *PlateHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req recognition.ExtractRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	plates := h.plateService.ExtractFromText(r.Context(), &req)

	h.logger.Debug("Plates extracted from text", map[string]interface{}{
		"text_length": len(req.Text),
		"plates":      len(plates),
		"correction":  req.CorrectOCRErrors,
	})

	respondData(w, http.StatusOK, map[string]interface{}{
		"plates":             plates,
		"count":              len(plates),
		"correction_applied": req.CorrectOCRErrors,
	})
}

// Correct применяет замены типичных ошибок OCR
// POST /api/v1/plates/correct
func (h *PlateHandler) Correct(w http.ResponseWriter, r *http.Request) {
	var req CorrectRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"original":  req.Text,
		"corrected": h.plateService.CorrectText(req.Text),
	})
}
