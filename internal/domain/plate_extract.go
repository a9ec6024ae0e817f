package domain

import (
	"regexp"
	"strings"
)

// candidatePattern допускает оба формата и необязательный дефис после букв
var candidatePattern = regexp.MustCompile(`[A-Z]{3}-?[0-9][A-Z0-9][0-9]{2}`)

// JoinTextBlocks склеивает блоки текста OCR через один пробел
func JoinTextBlocks(blocks []string) string {
	return strings.Join(blocks, " ")
}

// ExtractPlates ищет в тексте OCR подстроки, похожие на номер, и возвращает валидные номера
// в порядке появления слева направо. Найденные фрагменты не перекрываются.
// Пустой результат - нормальная ситуация "номера не найдены".
func ExtractPlates(text string) []LicensePlate {
	plates := make([]LicensePlate, 0)

	compact := strings.ToUpper(strings.Join(strings.Fields(text), ""))
	if compact == "" {
		return plates
	}

	for _, match := range candidatePattern.FindAllString(compact, -1) {
		plate := ValidatePlate(strings.ReplaceAll(match, "-", ""))
		if plate.IsValid {
			plates = append(plates, plate)
		}
	}

	return plates
}
