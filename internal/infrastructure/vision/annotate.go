//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
)

const (
	annotateMargin    = 20
	annotateThickness = 2
)

// Annotate подписывает снимок и обводит найденный номер. Возвращает отметку времени
// даже без изображения.
func Annotate(out *gocv.Mat, roi *entity.Rect, cropOffsetY int, text string, confidence float64, now time.Time) string {
	ts := entity.FormatTimestamp(now)
	if out == nil || out.Empty() {
		return ts
	}

	label := fmt.Sprintf("%s / %s / Score: %.2f", ts, text, confidence)
	scale := max(0.5, float64(out.Cols())/1600)
	gocv.PutText(out, label, image.Pt(annotateMargin, out.Rows()-annotateMargin),
		gocv.FontHersheySimplex, scale, green, annotateThickness)

	if roi != nil && !roi.Empty() {
		gocv.Rectangle(out, ScaleToSource(*roi, cropOffsetY).Image(), green, annotateThickness)
	}
	return ts
}
