package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EngineHTTP - имя движка, работающего через внешний OCR сервис
const EngineHTTP = "http"

type recognizeRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type recognizeResponse struct {
	Success        bool        `json:"success"`
	Blocks         []TextBlock `json:"blocks"`
	ProcessingTime float64     `json:"processing_time_ms"`
	Error          string      `json:"error,omitempty"`
}

// statusError - ответ сервиса с кодом, отличным от 200
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ocr service returned status %d: %s", e.code, e.body)
}

// HTTPEngine - клиент внешнего OCR сервиса
type HTTPEngine struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewHTTPEngine создает клиент OCR сервиса
func NewHTTPEngine(baseURL string, timeout time.Duration, maxRetries int) *HTTPEngine {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &HTTPEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: maxRetries,
		backoff:    time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (e *HTTPEngine) Name() string {
	return EngineHTTP
}

// Recognize отправляет изображение в OCR сервис.
// Повторяет запрос при сетевых ошибках и ответах 5xx с линейной задержкой.
func (e *HTTPEngine) Recognize(ctx context.Context, image []byte) (*Result, error) {
	payload, err := json.Marshal(recognizeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := e.baseURL + "/api/v1/ocr"

	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * e.backoff):
			}
		}

		var result *Result
		result, lastErr = e.doRequest(ctx, url, payload)
		if lastErr == nil {
			return result, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(lastErr) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrRecognitionFailed, lastErr)
}

func (e *HTTPEngine) doRequest(ctx context.Context, url string, payload []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &permanentError{fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	if !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &permanentError{fmt.Errorf("ocr service error: %s", msg)}
	}

	return &Result{
		Blocks:         parsed.Blocks,
		ProcessingTime: time.Duration(parsed.ProcessingTime * float64(time.Millisecond)),
	}, nil
}

// Health проверяет доступность OCR сервиса
func (e *HTTPEngine) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: health check returned status %d: %s", ErrEngineUnavailable, resp.StatusCode, string(body))
	}

	return nil
}

// permanentError - ошибка, повтор которой не изменит результат
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// isRetryable: повторяем сетевые ошибки и 5xx, но не 4xx и не ошибки разбора ответа
func isRetryable(err error) bool {
	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}
	var status *statusError
	if errors.As(err, &status) {
		return status.code >= http.StatusInternalServerError
	}
	return true
}
