package export

import (
	"fmt"
	"io"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName - имя листа с историей распознаваний
const SheetName = "Leituras"

// ContentType - MIME тип xlsx файла
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"Data", "ID", "Origem", "Motor", "Placa", "Formatada", "Tipo", "Falha OCR", "Correção"}

// ScansToXLSX пишет историю распознаваний в xlsx.
// Одна строка на каждый найденный номер; запись без номеров дает одну строку с пустой колонкой номера.
func ScansToXLSX(w io.Writer, scans []*domain.Scan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, scan := range scans {
		if scan == nil {
			continue
		}
		plates := scan.Plates
		if len(plates) == 0 {
			plates = []domain.LicensePlate{{}}
		}
		for _, plate := range plates {
			values := []interface{}{
				scan.CreatedAt.UTC().Format(time.RFC3339),
				scan.ID.String(),
				string(scan.Source),
				scan.Engine,
				plate.Text,
				"",
				"",
				yesNo(scan.OCRFailed),
				yesNo(scan.CorrectionApplied),
			}
			if plate.IsValid {
				values[5] = plate.Formatted()
				values[6] = plate.Type.Label()
			}

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 38); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
