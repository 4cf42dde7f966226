package vision

import (
	"math"

	"plate-reader/internal/domain/entity"
)

func validFractions(lo, hi float64) bool {
	return lo < hi && lo >= 0 && lo <= 1 && hi >= 0 && hi <= 1
}

// SizeFilter проверяет, что доля площади roi в кадре строго между minFrac и maxFrac.
func SizeFilter(size entity.Size, roi entity.Rect, minFrac, maxFrac float64) bool {
	if !validFractions(minFrac, maxFrac) || size.Area() <= 0 {
		return false
	}
	ratio := float64(roi.Area()) / float64(size.Area())
	return ratio > minFrac && ratio < maxFrac
}

// AspectFilter проверяет, что высота/ширина roi строго между minRatio и maxRatio.
func AspectFilter(roi entity.Rect, minRatio, maxRatio float64) bool {
	if !validFractions(minRatio, maxRatio) || roi.Width <= 0 || roi.Height < 0 {
		return false
	}
	ratio := float64(roi.Height) / float64(roi.Width)
	return ratio > minRatio && ratio < maxRatio
}

// Pad расширяет рамку на max(pct*размер, MinPadding) с каждой стороны.
// При square обе оси получают больший из отступов. bounding ограничивает результат.
func Pad(r entity.Rect, pct float64, square bool, bounding *entity.Size) entity.Rect {
	px := max(int(math.Round(pct*float64(r.Width))), MinPadding)
	py := max(int(math.Round(pct*float64(r.Height))), MinPadding)
	if square {
		p := max(px, py)
		px, py = p, p
	}

	out := entity.Rect{
		X:      r.X - px,
		Y:      r.Y - py,
		Width:  r.Width + 2*px,
		Height: r.Height + 2*py,
	}
	if bounding != nil {
		out = out.Clip(*bounding)
	}
	return out
}

// ScaleToSource переводит рамку из уменьшенной нижней половины кадра в координаты снимка.
func ScaleToSource(roi entity.Rect, cropOffsetY int) entity.Rect {
	return entity.Rect{
		X:      roi.X * DownscaleFactor,
		Y:      (roi.Y + cropOffsetY) * DownscaleFactor,
		Width:  roi.Width * DownscaleFactor,
		Height: roi.Height * DownscaleFactor,
	}
}
