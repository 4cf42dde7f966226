package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"plate-reader/internal/domain/entity"
)

func boxesAt(width int, xs ...int) []entity.Rect {
	boxes := make([]entity.Rect, len(xs))
	for i, x := range xs {
		boxes[i] = entity.Rect{X: x, Y: 0, Width: width, Height: 20}
	}
	return boxes
}

func TestWordBoundaries(t *testing.T) {
	tests := []struct {
		name string
		xs   []int
		want WordSplit
		ok   bool
	}{
		{"one two three", []int{0, 30, 50, 70, 90, 110}, WordSplit{0, 1, 3}, true},
		{"two two three", []int{0, 12, 40, 52, 64, 90, 102}, WordSplit{0, 2, 4}, true},
		{"two three three", []int{0, 12, 40, 52, 64, 76, 100, 112}, WordSplit{0, 2, 5}, true},
		{"evenly spaced", []int{0, 20, 40, 60, 80, 100}, WordSplit{0, 1, 3}, true},
		{"too few", []int{0, 30, 50, 70, 90}, WordSplit{}, false},
		{"first word too long", []int{0, 12, 24, 36, 60, 72, 84, 96}, WordSplit{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WordBoundaries(boxesAt(10, tt.xs...))
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplitWords(t *testing.T) {
	boxes := boxesAt(10, 0, 30, 50, 70, 90, 110)

	words := SplitWords(boxes, WordSplit{0, 1, 3})
	require.Len(t, words[0], 1)
	require.Len(t, words[1], 2)
	require.Len(t, words[2], 3)
	require.Equal(t, 30, words[1][0].X)

	require.Equal(t, [3][]entity.Rect{}, SplitWords(boxes, WordSplit{0, 1, 7}))
	require.Equal(t, [3][]entity.Rect{}, SplitWords(boxes, WordSplit{0, 3, 2}))
}

func TestPadChars(t *testing.T) {
	padded := PadChars([]entity.Rect{{X: 10, Y: 10, Width: 10, Height: 20}}, 0.15)
	require.Equal(t, []entity.Rect{{X: 7, Y: 7, Width: 16, Height: 26}}, padded)
}

func TestSortByX(t *testing.T) {
	boxes := boxesAt(5, 40, 10, 30, 10)
	boxes[1].Y = 1
	sortByX(boxes)
	require.Equal(t, []int{10, 10, 30, 40}, []int{boxes[0].X, boxes[1].X, boxes[2].X, boxes[3].X})
	require.Equal(t, 1, boxes[0].Y, "equal x keeps order")
}

func TestPlanLayout(t *testing.T) {
	chars := []entity.Rect{
		{X: 5, Y: 5, Width: 10, Height: 20},
		{X: 30, Y: 8, Width: 12, Height: 16},
	}
	padded := PadChars(chars, 0.15)

	size, tight, boxes := planLayout(chars, padded)
	require.Equal(t, entity.Size{Width: 34, Height: 26}, size)
	require.Equal(t, []entity.Rect{
		{X: 3, Y: 3, Width: 10, Height: 20},
		{X: 19, Y: 5, Width: 12, Height: 16},
	}, tight)
	require.Equal(t, []entity.Rect{
		{X: 0, Y: 0, Width: 16, Height: 26},
		{X: 16, Y: 2, Width: 18, Height: 22},
	}, boxes)
}

func TestSelectUniformHeights(t *testing.T) {
	keep, ok := selectUniformHeights([]int{20, 21, 19, 20, 22, 20, 5, 40}, 0.2, MaxGlyphContours, MinGlyphs)
	require.True(t, ok)
	require.Equal(t, []int{4, 1, 0, 3, 5, 2}, keep)

	_, ok = selectUniformHeights([]int{20, 20, 20, 20, 20, 5, 5, 5, 5}, 0.2, MaxGlyphContours, MinGlyphs)
	require.False(t, ok)

	_, ok = selectUniformHeights(nil, 0.2, MaxGlyphContours, MinGlyphs)
	require.False(t, ok)
}

func TestSelectUniformHeights_CapsAtKeepMax(t *testing.T) {
	heights := []int{20, 20, 20, 20, 20, 20, 20, 20, 20, 20}
	keep, ok := selectUniformHeights(heights, 0.2, MaxGlyphContours, MinGlyphs)
	require.True(t, ok)
	require.Len(t, keep, MaxGlyphContours)
}
