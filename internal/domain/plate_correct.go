package domain

import "strings"

// ocrConfusions заменяет буквы, которые OCR часто путает с цифрами
var ocrConfusions = strings.NewReplacer(
	"O", "0",
	"I", "1",
	"S", "5",
	"Z", "2",
	"B", "8",
)

// CorrectOCRErrors безусловно заменяет O→0, I→1, S→5, Z→2, B→8.
// Позиции символов не учитываются, поэтому вызывается только явно, до ExtractPlates.
func CorrectOCRErrors(text string) string {
	return ocrConfusions.Replace(text)
}
