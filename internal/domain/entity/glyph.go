package entity

const (
	digitChars  = "0123456789"
	letterChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GlyphClass класс символов одного слова номера.
type GlyphClass int

const (
	GlyphLetters GlyphClass = iota
	GlyphDigits
)

// Whitelist возвращает допустимые символы класса.
func (c GlyphClass) Whitelist() string {
	if c == GlyphDigits {
		return digitChars
	}
	return letterChars
}

func (c GlyphClass) String() string {
	if c == GlyphDigits {
		return "digits"
	}
	return "letters"
}

// Symbol результат чтения одного символа.
type Symbol struct {
	Text       string
	Confidence float64 // уверенность OCR, от 0 до 100
}
