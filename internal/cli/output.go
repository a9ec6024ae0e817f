package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
)

func parseFormat(s string) (outputFormat, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return formatTable, nil
	case "json":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: table, json)", s)
	}
}

// formatter печатает результат таблицей или JSON
type formatter struct {
	format outputFormat
	w      io.Writer
}

// print выводит data как JSON, а в табличном режиме строит таблицу из headers/rows
func (f *formatter) print(data interface{}, headers []string, rows [][]string) error {
	if f.format == formatJSON {
		encoder := json.NewEncoder(f.w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	table := tablewriter.NewWriter(f.w)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// note печатает поясняющую строку только в табличном режиме
func (f *formatter) note(message string) {
	if f.format == formatTable && message != "" {
		_, _ = fmt.Fprintln(f.w, message)
	}
}
