package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlateType представляет формат номерного знака
type PlateType string

const (
	PlateTypeOld      PlateType = "OLD"      // Старый формат: 3 буквы + 4 цифры
	PlateTypeMercosul PlateType = "MERCOSUL" // Mercosul: 3 буквы, цифра, буква, 2 цифры
)

// PlateLength - длина нормализованного номера в обоих форматах
const PlateLength = 7

var (
	mercosulPlatePattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	oldPlatePattern      = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
)

// Label возвращает название формата для отображения пользователю
func (t PlateType) Label() string {
	if t == PlateTypeMercosul {
		return "Mercosul"
	}
	return "Padrão Antigo"
}

// LicensePlate - результат классификации кандидата в номерной знак.
// Значение неизменяемо после создания через ValidatePlate.
// Если IsValid == false, поле Type не несет смысла (по умолчанию OLD).
type LicensePlate struct {
	Text    string    `json:"text"`
	Type    PlateType `json:"type"`
	IsValid bool      `json:"is_valid"`
}

// NormalizeLicensePlate нормализует номер автомобиля: убирает дефисы и пробельные символы,
// приводит к верхнему регистру
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, plate))
}

// ValidatePlate классифицирует кандидата как номер старого образца или Mercosul.
// Для невалидного кандидата возвращается исходная (ненормализованная) строка.
func ValidatePlate(candidate string) LicensePlate {
	normalized := NormalizeLicensePlate(candidate)

	if utf8.RuneCountInString(normalized) != PlateLength {
		return LicensePlate{Text: candidate, Type: PlateTypeOld, IsValid: false}
	}

	// Mercosul проверяем первым: форматы не пересекаются по 5-й позиции
	if mercosulPlatePattern.MatchString(normalized) {
		return LicensePlate{Text: normalized, Type: PlateTypeMercosul, IsValid: true}
	}

	if oldPlatePattern.MatchString(normalized) {
		return LicensePlate{Text: normalized, Type: PlateTypeOld, IsValid: true}
	}

	return LicensePlate{Text: candidate, Type: PlateTypeOld, IsValid: false}
}

// FormatPlate возвращает номер в виде XXX-XXXX для валидных номеров и исходный текст для остальных
func FormatPlate(plate LicensePlate) string {
	if !plate.IsValid || len(plate.Text) != PlateLength {
		return plate.Text
	}
	return plate.Text[:3] + "-" + plate.Text[3:]
}

// Formatted - сокращение для FormatPlate(p)
func (p LicensePlate) Formatted() string {
	return FormatPlate(p)
}
