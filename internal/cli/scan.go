package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/platescan/internal/infrastructure/ocr"
	"github.com/frontandrew/platescan/internal/usecase/recognition"
	"github.com/spf13/cobra"
)

// scanOutput - результат распознавания одного файла
type scanOutput struct {
	File              string                  `json:"file"`
	Engine            string                  `json:"engine"`
	RawText           string                  `json:"raw_text"`
	Plates            []recognition.PlateView `json:"plates"`
	OCRFailed         bool                    `json:"ocr_failed"`
	CorrectionApplied bool                    `json:"correction_applied"`
	Notice            string                  `json:"notice,omitempty"`
	ProcessingTimeMs  int64                   `json:"processing_time_ms"`
}

func (a *app) newScanCommand() *cobra.Command {
	var (
		engineName string
		serviceURL string
		correct    bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Распознать номера на изображении",
		Long: `Отправляет изображение в OCR движок (http сервис или встроенный tesseract)
и выводит найденные номера. Настройки берутся из окружения (OCR_*), флаги их переопределяют.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.logger(cmd)

			cfg, err := a.opts.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if engineName != "" {
				cfg.OCR.Engine = engineName
			}
			if serviceURL != "" {
				cfg.OCR.ServiceURL = serviceURL
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			engine, err := a.opts.NewEngine(&cfg.OCR)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := &scanOutput{
				File:              args[0],
				Engine:            engine.Name(),
				Plates:            []recognition.PlateView{},
				CorrectionApplied: correct,
			}

			start := time.Now()
			result, ocrErr := engine.Recognize(ctx, image)
			out.ProcessingTimeMs = time.Since(start).Milliseconds()

			if ocrErr != nil {
				log.Error("OCR failed", map[string]interface{}{
					"error":  ocrErr,
					"engine": engine.Name(),
					"file":   args[0],
				})
				out.OCRFailed = true
				out.Notice = recognition.NoticeOCRFailed
			} else {
				text, plates := recognition.ReadPlates(result.Texts(), correct)
				out.RawText = text
				out.Plates = plateViews(plates)
				if len(out.Plates) == 0 {
					out.Notice = recognition.NoticeNoPlates
				}
				log.Debug("Image scanned", map[string]interface{}{
					"engine":     engine.Name(),
					"blocks":     len(result.Blocks),
					"plates":     len(out.Plates),
					"elapsed_ms": out.ProcessingTimeMs,
				})
			}

			rows := make([][]string, 0, len(out.Plates))
			for _, v := range out.Plates {
				rows = append(rows, plateRow(v))
			}

			f := a.formatter(cmd)
			if err := f.print(out, plateHeaders, rows); err != nil {
				return err
			}
			f.note(out.Notice)

			if ocrErr != nil {
				return fmt.Errorf("%w: %s", ocr.ErrRecognitionFailed, args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", "", "OCR движок: http или tesseract (по умолчанию OCR_ENGINE)")
	cmd.Flags().StringVar(&serviceURL, "url", "", "адрес OCR сервиса для движка http (по умолчанию OCR_SERVICE_URL)")
	cmd.Flags().BoolVar(&correct, "correct", false, "исправить типичные ошибки OCR перед поиском")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "общий таймаут распознавания")
	return cmd
}
