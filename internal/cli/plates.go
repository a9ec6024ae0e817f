package cli

import (
	"fmt"
	"io"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/usecase/recognition"
	"github.com/spf13/cobra"
)

var plateHeaders = []string{"Plate", "Formatted", "Type", "Valid"}

func plateRow(v recognition.PlateView) []string {
	return []string{v.Text, v.Formatted, v.TypeLabel, yesNo(v.IsValid)}
}

func plateViews(plates []domain.LicensePlate) []recognition.PlateView {
	views := make([]recognition.PlateView, 0, len(plates))
	for _, p := range plates {
		views = append(views, recognition.NewPlateView(p))
	}
	return views
}

func (a *app) newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <candidate>...",
		Short: "Проверить строки как номера",
		Long: `Проверяет каждую строку как номер старого образца или Mercosul.
Регистр и дефисы не важны. Невалидная строка выводится без изменений.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type result struct {
				Candidate string `json:"candidate"`
				recognition.PlateView
			}

			results := make([]result, 0, len(args))
			rows := make([][]string, 0, len(args))
			invalid := 0
			for _, candidate := range args {
				view := recognition.NewPlateView(domain.ValidatePlate(candidate))
				if !view.IsValid {
					invalid++
				}
				results = append(results, result{Candidate: candidate, PlateView: view})
				rows = append(rows, append([]string{candidate}, plateRow(view)...))
			}

			if err := a.formatter(cmd).print(results, append([]string{"Candidate"}, plateHeaders...), rows); err != nil {
				return err
			}
			if strict && invalid > 0 {
				return &errInvalidPlates{count: invalid}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "завершиться с ошибкой, если есть невалидные номера")
	return cmd
}

func (a *app) newExtractCommand() *cobra.Command {
	var correct bool

	cmd := &cobra.Command{
		Use:   "extract [text|-]",
		Short: "Найти номера в тексте",
		Long: `Ищет номера в тексте слева направо. Без аргументов или с "-" текст читается из stdin.
--correct заменяет O→0, I→1, S→5, Z→2, B→8 перед поиском.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := joinArgs(args)
			if text == "" || text == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			if correct {
				text = domain.CorrectOCRErrors(text)
			}
			views := plateViews(domain.ExtractPlates(text))

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, plateRow(v))
			}

			f := a.formatter(cmd)
			if err := f.print(views, plateHeaders, rows); err != nil {
				return err
			}
			if len(views) == 0 {
				f.note(recognition.NoticeNoPlates)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&correct, "correct", false, "исправить типичные ошибки OCR перед поиском")
	return cmd
}
