package port

import (
	"context"
	"image"

	"plate-reader/internal/domain/entity"
)

// Observer получает промежуточные изображения конвейера для отладки
type Observer interface {
	// Observe вызывается после этапа stage для кандидата с номером candidate
	Observe(ctx context.Context, stage entity.Stage, candidate int, img image.Image)
}
