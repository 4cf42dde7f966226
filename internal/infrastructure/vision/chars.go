//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
)

// CharBoxes рамки связных компонент маски слева направо.
func CharBoxes(mask gocv.Mat) []entity.Rect {
	if mask.Empty() || mask.Type() != gocv.MatTypeCV8UC1 {
		return nil
	}
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)
	boxes := make([]entity.Rect, 0, max(n-1, 0))
	for label := 1; label < n; label++ {
		if box := BoundingBox(stats, label); !box.Empty() {
			boxes = append(boxes, box)
		}
	}
	sortByX(boxes)
	return boxes
}

// Layout строка символов, собранная для OCR.
type Layout struct {
	Strip  gocv.Mat
	Chars  []entity.Rect // плотные рамки в координатах полосы
	Padded []entity.Rect // расширенные рамки в координатах полосы
}

// Close освобождает полосу.
func (l *Layout) Close() {
	if !l.Strip.Empty() {
		l.Strip.Close()
	}
}

// Relayout переносит символы маски в одну строку: каждый по центру своей расширенной
// рамки, рамки выровнены по центру самой высокой.
func Relayout(mask gocv.Mat, chars, padded []entity.Rect) (Layout, error) {
	if mask.Empty() || len(chars) == 0 || len(chars) != len(padded) {
		return Layout{Strip: gocv.NewMat()}, entity.NewStageError(entity.StageLayout, entity.ReasonTooFewGlyphs, nil)
	}
	size, tight, boxes := planLayout(chars, padded)
	strip := zeros(size.Height, size.Width)

	bounds := entity.Size{Width: mask.Cols(), Height: mask.Rows()}
	for i, c := range chars {
		if c.Clip(bounds) != c {
			strip.Close()
			return Layout{Strip: gocv.NewMat()}, entity.NewStageError(entity.StageLayout, entity.ReasonTooFewGlyphs, nil)
		}
		src := mask.Region(c.Image())
		dst := strip.Region(tight[i].Image())
		src.CopyTo(&dst)
		src.Close()
		dst.Close()
	}
	return Layout{Strip: strip, Chars: tight, Padded: boxes}, nil
}
