package vision

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"plate-reader/internal/domain/entity"
)

// WordSplit границы трёх слов номера: буквы, цифры, буквы.
type WordSplit struct {
	I0, I1, I2 int
}

// WordBoundaries находит границы слов по самому широкому промежутку перед последними
// тремя буквами. Первое слово должно иметь 1 или 2 символа, второе 2 или 3.
func WordBoundaries(chars []entity.Rect) (WordSplit, bool) {
	n := len(chars)
	if n < MinGlyphs {
		return WordSplit{}, false
	}
	i2 := n - TrailingLetters

	i1, widest := 0, math.MinInt
	for i := 1; i < i2; i++ {
		gap := chars[i].X - chars[i-1].Right()
		if gap > widest {
			i1, widest = i, gap
		}
	}

	if i1 != 1 && i1 != 2 {
		return WordSplit{}, false
	}
	if d := i2 - i1; d != 2 && d != 3 {
		return WordSplit{}, false
	}
	return WordSplit{I0: 0, I1: i1, I2: i2}, true
}

// PadChars расширяет каждую рамку символа до квадратного отступа.
func PadChars(chars []entity.Rect, pct float64) []entity.Rect {
	padded := make([]entity.Rect, len(chars))
	for i, c := range chars {
		padded[i] = Pad(c, pct, true, nil)
	}
	return padded
}

// SplitWords режет список рамок по границам слов.
func SplitWords(boxes []entity.Rect, s WordSplit) [3][]entity.Rect {
	if s.I0 != 0 || s.I1 < s.I0 || s.I2 < s.I1 || s.I2 > len(boxes) {
		return [3][]entity.Rect{}
	}
	return [3][]entity.Rect{boxes[:s.I1], boxes[s.I1:s.I2], boxes[s.I2:]}
}

// sortByX упорядочивает рамки слева направо.
func sortByX(boxes []entity.Rect) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].X < boxes[j].X
	})
}

// planLayout раскладывает символы в одну строку: каждый символ по центру своей
// расширенной рамки, все рамки выровнены по вертикали относительно самой высокой.
func planLayout(chars, padded []entity.Rect) (entity.Size, []entity.Rect, []entity.Rect) {
	stripH := 0
	for _, p := range padded {
		stripH = max(stripH, p.Height)
	}

	tight := make([]entity.Rect, len(chars))
	boxes := make([]entity.Rect, len(padded))
	x := 0
	for i := range chars {
		pw, ph := padded[i].Width, padded[i].Height
		w, h := chars[i].Width, chars[i].Height
		tight[i] = entity.Rect{X: x + (pw-w)/2, Y: (stripH - h) / 2, Width: w, Height: h}
		boxes[i] = entity.Rect{X: x, Y: (stripH - ph) / 2, Width: pw, Height: ph}
		x += pw
	}
	return entity.Size{Width: x, Height: stripH}, tight, boxes
}

// selectUniformHeights отбирает до keepMax самых высоких контуров, чья высота
// отличается от медианы не больше чем на maxDev*медиана.
func selectUniformHeights(heights []int, maxDev float64, keepMax, minKeep int) ([]int, bool) {
	order := make([]int, len(heights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return heights[order[a]] > heights[order[b]]
	})
	if len(order) > keepMax {
		order = order[:keepMax]
	}
	if len(order) == 0 {
		return nil, false
	}

	asc := make([]float64, len(order))
	for i, idx := range order {
		asc[len(order)-1-i] = float64(heights[idx])
	}
	median := stat.Quantile(0.5, stat.Empirical, asc, nil)

	keep := make([]int, 0, len(order))
	for _, idx := range order {
		if math.Abs(float64(heights[idx])-median) <= maxDev*median {
			keep = append(keep, idx)
		}
	}
	if len(keep) < minKeep {
		return nil, false
	}
	return keep, true
}
