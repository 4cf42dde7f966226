//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"
	"math"

	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
)

var (
	errNoLines       = errors.New("no hough lines for every side")
	errParallelSides = errors.New("plate sides do not intersect")
)

// FindCorners ищет углы номера по контуру области. Длина отрезков Хафа уменьшается на
// пиксель после каждой неудачи, пока не дойдёт до нуля или не исчерпает попытки.
func FindCorners(ctx context.Context, mask gocv.Mat, contour []image.Point, p Params) ([4]entity.Point, error) {
	var corners [4]entity.Point
	if mask.Empty() || len(contour) < 3 {
		return corners, entity.NewStageError(entity.StageCorners, entity.ReasonNoCorners, nil)
	}

	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()
	rr := gocv.MinAreaRect(pv)
	height := min(rr.Width, rr.Height)

	pvs := gocv.NewPointsVectorFromPoints([][]image.Point{contour})
	defer pvs.Close()
	outline := zeros(mask.Rows(), mask.Cols())
	defer outline.Close()
	gocv.DrawContours(&outline, pvs, 0, white, 1)

	size := entity.Size{Width: mask.Cols(), Height: mask.Rows()}
	attempts := 0
	for minLen := int(float64(height) * p.HoughStartFrac); minLen > 0; minLen-- {
		if attempts >= p.HoughMaxAttempts {
			return corners, entity.NewStageError(entity.StageCorners, entity.ReasonBudgetExhausted, nil)
		}
		if err := ctx.Err(); err != nil {
			return corners, err
		}
		attempts++

		quad, ok := ClassifyAndSort(houghSegments(outline, p, minLen), size)
		if !ok {
			continue
		}
		if corners, ok = quad.Corners(); !ok {
			return corners, entity.NewStageError(entity.StageCorners, entity.ReasonDegenerateQuad, errParallelSides)
		}
		return corners, nil
	}
	return corners, entity.NewStageError(entity.StageCorners, entity.ReasonNoCorners, errNoLines)
}

func houghSegments(outline gocv.Mat, p Params, minLen int) []entity.Line {
	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(outline, &lines, 1, math.Pi/180, p.HoughVotes, float32(minLen), float32(p.HoughMaxGap))

	segments := make([]entity.Line, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		if len(v) < 4 {
			continue
		}
		segments = append(segments, entity.Line{
			X1: float64(v[0]), Y1: float64(v[1]),
			X2: float64(v[2]), Y2: float64(v[3]),
		})
	}
	return segments
}

// PadToFitPoints расширяет изображение так, чтобы все точки попали в кадр,
// и сдвигает точки вместе с ним.
func PadToFitPoints(img gocv.Mat, pts [4]entity.Point, maxGrowth float64) (gocv.Mat, [4]entity.Point, error) {
	size := entity.Size{Width: img.Cols(), Height: img.Rows()}
	top, bottom, left, right, ok := fitPadding(size, pts, maxGrowth)
	if !ok {
		return gocv.NewMat(), pts, entity.NewStageError(entity.StageRectify, entity.ReasonPaddingOverflow, nil)
	}

	padded := gocv.NewMat()
	gocv.CopyMakeBorder(img, &padded, top, bottom, left, right, gocv.BorderConstant, black)
	for i := range pts {
		pts[i].X += float64(left)
		pts[i].Y += float64(top)
	}
	return padded, pts, nil
}

// Rectify выпрямляет номер перспективным преобразованием в прямоугольник с пропорциями номера.
func Rectify(img gocv.Mat, corners [4]entity.Point, minHeightFrac float64) (gocv.Mat, error) {
	size, ok := rectifiedSize(corners, img.Rows(), minHeightFrac)
	if !ok {
		return gocv.NewMat(), entity.NewStageError(entity.StageRectify, entity.ReasonDegenerateQuad, nil)
	}

	srcPts := make([]gocv.Point2f, len(corners))
	for i, c := range corners {
		srcPts[i] = gocv.Point2f{X: float32(c.X), Y: float32(c.Y)}
	}
	w, h := float32(size.Width-1), float32(size.Height-1)
	dstPts := []gocv.Point2f{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}

	src := gocv.NewPoint2fVectorFromPoints(srcPts)
	defer src.Close()
	dst := gocv.NewPoint2fVectorFromPoints(dstPts)
	defer dst.Close()
	transform := gocv.GetPerspectiveTransform2f(src, dst)
	defer transform.Close()

	warped := gocv.NewMat()
	gocv.WarpPerspective(img, &warped, transform, image.Pt(size.Width, size.Height))
	return warped, nil
}
