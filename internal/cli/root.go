// Package cli содержит команды утилиты platescan для проверки номеров из терминала.
package cli

import (
	"fmt"
	"strings"

	"github.com/frontandrew/platescan/internal/infrastructure/ocr"
	"github.com/frontandrew/platescan/internal/pkg/config"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/spf13/cobra"
)

// Options - внешние зависимости команд, подменяемые в тестах
type Options struct {
	LoadConfig func() (*config.Config, error)
	NewEngine  func(cfg *config.OCRConfig) (ocr.Engine, error)
}

// DefaultOptions возвращает зависимости для реального запуска
func DefaultOptions() Options {
	return Options{
		LoadConfig: config.Load,
		NewEngine:  ocr.NewEngine,
	}
}

// app - состояние, общее для всех команд одного запуска
type app struct {
	opts      Options
	outputFmt string
	verbose   bool
}

// NewRootCommand собирает дерево команд
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "platescan",
		Short: "Проверка и распознавание бразильских автомобильных номеров",
		Long: `platescan проверяет номера старого образца (ABC1234) и Mercosul (ABC1D23),
ищет их в тексте и на изображениях через настроенный OCR движок.

Примеры:
  platescan validate abc-1234 ABC1D23
  echo "placa ABC1D23" | platescan extract
  platescan scan foto.jpg --engine tesseract --correct`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := parseFormat(a.outputFmt)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&a.outputFmt, "output", "o", string(formatTable),
		"формат вывода: table, json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"подробный лог в stderr")

	root.AddCommand(
		a.newValidateCommand(),
		a.newExtractCommand(),
		a.newScanCommand(),
	)

	return root
}

// formatter создает форматтер для вывода команды
func (a *app) formatter(cmd *cobra.Command) *formatter {
	format, _ := parseFormat(a.outputFmt)
	return &formatter{format: format, w: cmd.OutOrStdout()}
}

// logger пишет в stderr команды; без --verbose только ошибки
func (a *app) logger(cmd *cobra.Command) logger.Logger {
	level := "error"
	if a.verbose {
		level = "debug"
	}
	return logger.NewWriter(cmd.ErrOrStderr(), level)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// errInvalidPlates возвращается validate --strict, если хотя бы один кандидат невалиден
type errInvalidPlates struct {
	count int
}

func (e *errInvalidPlates) Error() string {
	return fmt.Sprintf("%d invalid plate(s)", e.count)
}
