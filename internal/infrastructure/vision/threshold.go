package vision

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// triangleIndex возвращает индекс бина, наиболее удалённого от прямой между первым
// ненулевым бином и максимумом накопленной гистограммы.
func triangleIndex(hist []float64) int {
	if len(hist) == 0 {
		return 0
	}
	cum := floats.CumSum(make([]float64, len(hist)), hist)

	first := -1
	for i, v := range cum {
		if v > 0 {
			first = i
			break
		}
	}
	if first < 0 {
		return 0
	}
	peak := floats.MaxIdx(cum)
	if peak <= first {
		return first
	}

	x1, y1 := float64(first), cum[first]
	x2, y2 := float64(peak), cum[peak]
	a := y2 - y1
	b := x1 - x2
	c := x2*y1 - x1*y2
	norm := math.Hypot(a, b)

	best, bestDist := first, -1.0
	for i := first; i <= peak; i++ {
		d := math.Abs(a*float64(i)+b*cum[i]+c) / norm
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// triangleThreshold подбирает порог бинаризации по значениям растра.
func triangleThreshold(values []float32) float32 {
	var hi float32
	for _, v := range values {
		if v > hi {
			hi = v
		}
	}
	if hi <= 0 {
		return 0
	}

	hist := make([]float64, histogramBins)
	scale := float32(histogramBins-1) / hi
	for _, v := range values {
		idx := int(v * scale)
		if idx < 0 {
			idx = 0
		}
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		hist[idx]++
	}

	return float32(triangleIndex(hist)) / scale
}

// binarizeAbove ставит 255 там, где значение строго больше порога.
func binarizeAbove(src fplane, t float32) plane {
	dst := newPlane(src.w, src.h, 1)
	for i, v := range src.pix {
		if v > t {
			dst.pix[i] = 255
		}
	}
	return dst
}
