package port

import (
	"context"

	"plate-reader/internal/domain/entity"
)

// GlyphReader интерфейс OCR для одиночных символов
type GlyphReader interface {
	// ReadSymbols распознаёт символы на изображении (PNG, тёмные знаки на светлом фоне)
	ReadSymbols(imagePNG []byte, class entity.GlyphClass) ([]entity.Symbol, error)

	// Close освобождает ресурсы движка
	Close() error
}

// GlyphReaderPool выдаёт движки OCR во временное пользование
type GlyphReaderPool interface {
	// Acquire возвращает свободный движок, ожидая его при необходимости
	Acquire(ctx context.Context) (GlyphReader, error)

	// Release возвращает движок в пул
	Release(reader GlyphReader)
}
