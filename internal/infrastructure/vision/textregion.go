//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
)

// InteriorMask маска знаков выпрямленного номера: рамка в 1px заменяется белой,
// затем Оцу и инверсия, так что знаки становятся белыми.
func InteriorMask(gray gocv.Mat) gocv.Mat {
	if gray.Empty() || gray.Channels() != 1 || gray.Rows() < 3 || gray.Cols() < 3 {
		return gocv.NewMat()
	}
	inner := gray.Region(image.Rect(1, 1, gray.Cols()-1, gray.Rows()-1))
	defer inner.Close()

	bordered := gocv.NewMat()
	defer bordered.Close()
	gocv.CopyMakeBorder(inner, &bordered, 1, 1, 1, 1, gocv.BorderConstant, white)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(bordered, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	mask := gocv.NewMat()
	gocv.BitwiseNot(binary, &mask)
	return mask
}

// Denoise оставляет до MaxGlyphContours самых высоких контуров с высотой около медианной.
// Дырки в знаках берутся из исходной маски.
func Denoise(mask gocv.Mat, maxDev float64) (gocv.Mat, error) {
	if mask.Empty() || mask.Type() != gocv.MatTypeCV8UC1 {
		return gocv.NewMat(), entity.NewStageError(entity.StageDenoise, entity.ReasonTooFewGlyphs, nil)
	}
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	heights := make([]int, contours.Size())
	for i := range heights {
		heights[i] = gocv.BoundingRect(contours.At(i)).Dy()
	}
	keep, ok := selectUniformHeights(heights, maxDev, MaxGlyphContours, MinGlyphs)
	if !ok {
		return gocv.NewMat(), entity.NewStageError(entity.StageDenoise, entity.ReasonTooFewGlyphs, nil)
	}

	filled := zeros(mask.Rows(), mask.Cols())
	defer filled.Close()
	for _, idx := range keep {
		gocv.DrawContours(&filled, contours, idx, white, -1)
	}

	out := gocv.NewMat()
	gocv.BitwiseAnd(mask, filled, &out)
	return out, nil
}
