package entity

import "math"

// Point точка с вещественными координатами.
type Point struct {
	X float64
	Y float64
}

// Line отрезок, заданный двумя концами.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Degenerate сообщает, что концы отрезка совпадают.
func (l Line) Degenerate() bool {
	return l.X1 == l.X2 && l.Y1 == l.Y2
}

// Midpoint возвращает середину отрезка.
func (l Line) Midpoint() Point {
	return Point{X: (l.X1 + l.X2) / 2, Y: (l.Y1 + l.Y2) / 2}
}

// Start возвращает первый конец отрезка.
func (l Line) Start() Point {
	return Point{X: l.X1, Y: l.Y1}
}

// End возвращает второй конец отрезка.
func (l Line) End() Point {
	return Point{X: l.X2, Y: l.Y2}
}

// Angle возвращает наклон отрезка к горизонтали в градусах, от 0 до 90.
func (l Line) Angle() float64 {
	return math.Atan2(math.Abs(l.Y2-l.Y1), math.Abs(l.X2-l.X1)) * 180 / math.Pi
}

// Reversed меняет концы отрезка местами.
func (l Line) Reversed() Line {
	return Line{X1: l.X2, Y1: l.Y2, X2: l.X1, Y2: l.Y1}
}
