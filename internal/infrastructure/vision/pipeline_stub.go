//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"plate-reader/internal/domain/entity"
)

// Recognize возвращает ошибку, если сборка без тега gocv.
func (p *Pipeline) Recognize(ctx context.Context, src, dst string) (*entity.PlateResult, error) {
	_ = ctx
	_ = src
	_ = dst
	return entity.NewFailedResult(entity.FormatTimestamp(p.now()), entity.ReasonMalformedInput),
		errors.New("gocv build tag is not enabled")
}
