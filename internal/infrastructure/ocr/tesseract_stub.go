//go:build !ocr
// +build !ocr

package ocr

import (
	"errors"

	"plate-reader/internal/domain/port"
)

// NewTesseractFactory возвращает фабрику, которая всегда завершается ошибкой без тега ocr.
func NewTesseractFactory(tessdata, model string) Factory {
	_ = tessdata
	_ = model
	return func() (port.GlyphReader, error) {
		return nil, errors.New("ocr build tag is not enabled")
	}
}
