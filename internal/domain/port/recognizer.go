package port

import (
	"context"

	"plate-reader/internal/domain/entity"
)

// PlateRecognizer интерфейс распознавателя номеров
type PlateRecognizer interface {
	// Recognize читает номер со снимка src и сохраняет размеченный снимок в dst, если путь задан.
	// Нечитаемый номер не считается ошибкой: результат содержит N/A и причину отказа.
	Recognize(ctx context.Context, src, dst string) (*entity.PlateResult, error)
}
