package entity

import "image"

// Size размер изображения в пикселях.
type Size struct {
	Width  int
	Height int
}

// Area возвращает площадь в пикселях.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Rect прямоугольная область изображения.
type Rect struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Center возвращает координаты центра области.
func (r Rect) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area возвращает площадь области.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty сообщает, что область не содержит ни одного пикселя.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right возвращает X первого столбца справа от области.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom возвращает Y первой строки под областью.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Clip обрезает область по границам изображения заданного размера.
func (r Rect) Clip(size Size) Rect {
	x0 := max(r.X, 0)
	y0 := max(r.Y, 0)
	x1 := min(r.Right(), size.Width)
	y1 := min(r.Bottom(), size.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Shrink сужает область на n пикселей с каждой стороны.
func (r Rect) Shrink(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Image переводит область в image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// RectFromImage строит Rect из image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
