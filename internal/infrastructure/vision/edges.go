//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
)

// MaskColorRange гасит пиксели синей плашки в HSV-изображении.
func MaskColorRange(hsv gocv.Mat) gocv.Mat {
	p, ok := planeFromMat(hsv)
	if !ok || p.ch != 3 {
		return gocv.NewMat()
	}
	return matFromPlane(maskBadge(p))
}

// ToBGR обратное к ToHSV преобразование.
func ToBGR(hsv gocv.Mat) gocv.Mat {
	p, ok := planeFromMat(hsv)
	if !ok || p.ch != 3 {
		return gocv.NewMat()
	}
	return matFromPlane(hsvToBGR(p))
}

// TriangleBinarize бинаризует одноканальный Mat порогом по методу треугольника.
func TriangleBinarize(src gocv.Mat) gocv.Mat {
	f, ok := fplaneFromMat(src)
	if !ok {
		return gocv.NewMat()
	}
	return matFromPlane(binarizeAbove(f, triangleThreshold(f.pix)))
}

// SobelEdges возвращает бинарный модуль градиента и направление градиента в градусах.
func SobelEdges(gray gocv.Mat) (gocv.Mat, fplane) {
	dx := gocv.NewMat()
	defer dx.Close()
	dy := gocv.NewMat()
	defer dy.Close()
	gocv.Sobel(gray, &dx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &dy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	fx, okX := fplaneFromMat(dx)
	fy, okY := fplaneFromMat(dy)
	if !okX || !okY {
		return gocv.NewMat(), fplane{}
	}
	mag, dir := gradientPolar(fx, fy)
	return matFromPlane(binarizeAbove(mag, triangleThreshold(mag.pix))), dir
}

// NonMaxSuppress утончает края вдоль направления градиента.
func NonMaxSuppress(src gocv.Mat, dir fplane) gocv.Mat {
	p, ok := planeFromMat(src)
	if !ok || p.ch != 1 {
		return gocv.NewMat()
	}
	return matFromPlane(nonMaxSuppress(p, dir))
}

// Edges объединяет края Собеля и морфологического градиента и утончает их.
func Edges(gray gocv.Mat) gocv.Mat {
	sobel, dir := SobelEdges(gray)
	defer sobel.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	grad := gocv.NewMat()
	defer grad.Close()
	gocv.MorphologyEx(gray, &grad, gocv.MorphGradient, kernel)

	gradBin := TriangleBinarize(grad)
	defer gradBin.Close()
	if sobel.Empty() || gradBin.Empty() {
		return gocv.NewMat()
	}

	combined := gocv.NewMat()
	defer combined.Close()
	gocv.BitwiseOr(sobel, gradBin, &combined)

	weighted := gocv.NewMat()
	defer weighted.Close()
	gocv.BitwiseAnd(combined, grad, &weighted)

	return NonMaxSuppress(weighted, dir)
}

// SubtractMask обнуляет в dst пиксели, выставленные в обеих масках.
func SubtractMask(dst *gocv.Mat, mask gocv.Mat) {
	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(mask, &inverted)
	gocv.BitwiseAnd(*dst, inverted, dst)
}

// Region крупнейшая область кандидата.
type Region struct {
	Mask    gocv.Mat // залитый контур
	Contour []image.Point
	Box     entity.Rect
}

// Close освобождает маску.
func (r *Region) Close() {
	if !r.Mask.Empty() {
		r.Mask.Close()
	}
}

// IsolateLargestRegion выделяет крупнейшую светлую область. Края, если заданы,
// расширяются и вычитаются, чтобы разделить слипшиеся области. Область правдоподобна,
// если её ширина больше minWidthFrac ширины кадра.
func IsolateLargestRegion(gray gocv.Mat, edges *gocv.Mat, minWidthFrac float64) (Region, bool) {
	region := Region{Mask: gocv.NewMat()}
	if gray.Empty() || gray.Channels() != 1 {
		return region, false
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	if edges != nil && !edges.Empty() {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
		defer kernel.Close()
		dilated := gocv.NewMat()
		defer dilated.Close()
		gocv.Dilate(*edges, &dilated, kernel)
		SubtractMask(&binary, dilated)
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best, bestArea := -1, 0.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best, bestArea = i, area
		}
	}
	if best < 0 {
		return region, false
	}

	region.Mask.Close()
	region.Mask = zeros(gray.Rows(), gray.Cols())
	gocv.DrawContours(&region.Mask, contours, best, white, -1)
	region.Contour = contours.At(best).ToPoints()
	region.Box = entity.RectFromImage(gocv.BoundingRect(contours.At(best)))

	return region, float64(region.Box.Width) > minWidthFrac*float64(gray.Cols())
}
