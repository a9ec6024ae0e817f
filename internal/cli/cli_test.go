package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frontandrew/platescan/internal/infrastructure/ocr"
	"github.com/frontandrew/platescan/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		LoadConfig: func() (*config.Config, error) {
			return &config.Config{
				OCR: config.OCRConfig{
					Engine:     config.OCREngineHTTP,
					ServiceURL: "http://127.0.0.1:1",
					Timeout:    5 * time.Second,
					MaxRetries: 1,
				},
			}, nil
		},
		NewEngine: ocr.NewEngine,
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(testOptions())
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "", "validate", "abc-1234", "ABC1D23", "AB12345")
	require.NoError(t, err)
	assert.Contains(t, out, "ABC-1234")
	assert.Contains(t, out, "ABC-1D23")
	assert.Contains(t, out, "Mercosul")
	assert.Contains(t, out, "AB12345")
}

func TestValidateCommand_JSON(t *testing.T) {
	out, err := run(t, "", "validate", "-o", "json", "xyz9z99")
	require.NoError(t, err)

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "xyz9z99", results[0]["candidate"])
	assert.Equal(t, "XYZ9Z99", results[0]["text"])
	assert.Equal(t, "MERCOSUL", results[0]["type"])
	assert.Equal(t, true, results[0]["is_valid"])
}

func TestValidateCommand_Strict(t *testing.T) {
	_, err := run(t, "", "validate", "--strict", "ABC1234", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 invalid plate")

	_, err = run(t, "", "validate", "--strict", "ABC1234")
	assert.NoError(t, err)
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected []string
	}{
		{"из аргументов", "", []string{"extract", "-o", "json", "BRASIL ABC1D23 noise XYZ9999"}, []string{"ABC1D23", "XYZ9999"}},
		{"из stdin", "placa ABC-1234\n", []string{"extract", "-o", "json"}, []string{"ABC1234"}},
		{"дефис читает stdin", "XYZ9Z99", []string{"extract", "-o", "json", "-"}, []string{"XYZ9Z99"}},
		{"без коррекции буква остается в номере", "", []string{"extract", "-o", "json", "ACD1O23"}, []string{"ACD1O23"}},
		{"без коррекции", "", []string{"extract", "-o", "json", "ABCIO23"}, []string{}},
		{"с коррекцией", "", []string{"extract", "-o", "json", "--correct", "ACD1O23"}, []string{"ACD1023"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)

			var plates []map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &plates))
			texts := make([]string, 0, len(plates))
			for _, p := range plates {
				texts = append(texts, p["text"].(string))
			}
			assert.Equal(t, tt.expected, texts)
		})
	}
}

func TestExtractCommand_TableNotice(t *testing.T) {
	out, err := run(t, "", "extract", "nothing here")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma placa detectada")
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "placa.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	return path
}

func TestScanCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ocr", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"blocks":[{"text":"BRASIL","confidence":0.9},{"text":"ABC1D23","confidence":0.95}],"processing_time_ms":12}`))
	}))
	defer server.Close()

	out, err := run(t, "", "scan", writeImage(t), "--url", server.URL, "-o", "json")
	require.NoError(t, err)

	var result scanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "http", result.Engine)
	assert.Equal(t, "BRASIL ABC1D23", result.RawText)
	require.Len(t, result.Plates, 1)
	assert.Equal(t, "ABC-1D23", result.Plates[0].Formatted)
	assert.False(t, result.OCRFailed)
	assert.Empty(t, result.Notice)
}

func TestScanCommand_OCRFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`bad image`))
	}))
	defer server.Close()

	out, err := run(t, "", "scan", writeImage(t), "--url", server.URL, "-o", "json")
	require.ErrorIs(t, err, ocr.ErrRecognitionFailed)

	var result scanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.OCRFailed)
	assert.Empty(t, result.Plates)
	assert.Equal(t, "Não foi possível processar a imagem", result.Notice)
}

func TestScanCommand_MissingFile(t *testing.T) {
	_, err := run(t, "", "scan", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read image")
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	_, err := run(t, "", "validate", "-o", "yaml", "ABC1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
