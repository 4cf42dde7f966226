package vision

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"plate-reader/internal/domain/entity"
)

// Axis ось упорядочивания концов отрезка.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// Quad четыре стороны номера.
type Quad struct {
	Left   entity.Line
	Top    entity.Line
	Right  entity.Line
	Bottom entity.Line
}

// Corners возвращает углы в порядке: левый верхний, правый верхний, правый нижний, левый нижний.
func (q Quad) Corners() ([4]entity.Point, bool) {
	var corners [4]entity.Point
	pairs := [4][2]entity.Line{
		{q.Left, q.Top},
		{q.Top, q.Right},
		{q.Right, q.Bottom},
		{q.Bottom, q.Left},
	}
	for i, pair := range pairs {
		p, ok := Intersection(pair[0], pair[1])
		if !ok {
			return corners, false
		}
		corners[i] = p
	}
	return corners, true
}

// LineThroughCentroid строит отрезок от края до края кадра через точку p.
// Для горизонтали slope = dy/dx, для вертикали slope = dx/dy.
func LineThroughCentroid(slope float64, p entity.Point, horizontal bool, size entity.Size) entity.Line {
	if horizontal {
		x1, x2 := 0.0, float64(size.Width-1)
		return entity.Line{X1: x1, Y1: p.Y + slope*(x1-p.X), X2: x2, Y2: p.Y + slope*(x2-p.X)}
	}
	y1, y2 := 0.0, float64(size.Height-1)
	return entity.Line{X1: p.X + slope*(y1-p.Y), Y1: y1, X2: p.X + slope*(y2-p.Y), Y2: y2}
}

func sideOf(ref entity.Line, p entity.Point) float64 {
	return (ref.X2-ref.X1)*(p.Y-ref.Y1) - (ref.Y2-ref.Y1)*(p.X-ref.X1)
}

// SplitBySide делит отрезки по знаку векторного произведения середины относительно ref.
// В sideA попадают отрезки со строго отрицательной стороны.
func SplitBySide(lines []entity.Line, ref entity.Line) (sideA, sideB []entity.Line) {
	for _, l := range lines {
		if sideOf(ref, l.Midpoint()) < 0 {
			sideA = append(sideA, l)
		} else {
			sideB = append(sideB, l)
		}
	}
	return sideA, sideB
}

func alongAxis(p entity.Point, axis Axis) float64 {
	if axis == AxisVertical {
		return p.Y
	}
	return p.X
}

// OuterEnvelope возвращает отрезок от наименьшего начала до наибольшего конца вдоль оси.
func OuterEnvelope(lines []entity.Line, axis Axis) (entity.Line, bool) {
	if len(lines) == 0 {
		return entity.Line{}, false
	}
	var start, end entity.Point
	for i, l := range lines {
		if alongAxis(l.Start(), axis) > alongAxis(l.End(), axis) {
			l = l.Reversed()
		}
		if i == 0 || alongAxis(l.Start(), axis) < alongAxis(start, axis) {
			start = l.Start()
		}
		if i == 0 || alongAxis(l.End(), axis) > alongAxis(end, axis) {
			end = l.End()
		}
	}
	return entity.Line{X1: start.X, Y1: start.Y, X2: end.X, Y2: end.Y}, true
}

// ClassifyAndSort раскладывает отрезки Хафа по сторонам номера.
// Отказ, если хотя бы одна сторона осталась пустой.
func ClassifyAndSort(lines []entity.Line, size entity.Size) (Quad, bool) {
	var horizontal, vertical []entity.Line
	for _, l := range lines {
		if l.Degenerate() {
			continue
		}
		a := l.Angle()
		if math.Abs(a-90) < math.Abs(a) {
			vertical = append(vertical, l)
		} else {
			horizontal = append(horizontal, l)
		}
	}
	if len(horizontal) == 0 || len(vertical) == 0 {
		return Quad{}, false
	}

	slopes := make([]float64, 0, len(horizontal))
	for _, l := range horizontal {
		slopes = append(slopes, (l.Y2-l.Y1)/(l.X2-l.X1))
	}
	center := entity.Point{X: float64(size.Width) / 2, Y: float64(size.Height) / 2}
	hRef := LineThroughCentroid(stat.Mean(slopes, nil), center, true, size)
	vRef := LineThroughCentroid(0, center, false, size)

	top, bottom := SplitBySide(horizontal, hRef)
	right, left := SplitBySide(vertical, vRef)

	var q Quad
	var ok bool
	if q.Left, ok = OuterEnvelope(left, AxisVertical); !ok {
		return Quad{}, false
	}
	if q.Right, ok = OuterEnvelope(right, AxisVertical); !ok {
		return Quad{}, false
	}
	if q.Top, ok = OuterEnvelope(top, AxisHorizontal); !ok {
		return Quad{}, false
	}
	if q.Bottom, ok = OuterEnvelope(bottom, AxisHorizontal); !ok {
		return Quad{}, false
	}
	return q, true
}

// Intersection точка пересечения прямых, проходящих через отрезки a и b.
// Параллельные и вырожденные отрезки дают отказ.
func Intersection(a, b entity.Line) (entity.Point, bool) {
	d := (a.X1-a.X2)*(b.Y1-b.Y2) - (a.Y1-a.Y2)*(b.X1-b.X2)
	if d == 0 {
		return entity.Point{}, false
	}
	pa := a.X1*a.Y2 - a.Y1*a.X2
	pb := b.X1*b.Y2 - b.Y1*b.X2
	return entity.Point{
		X: (pa*(b.X1-b.X2) - (a.X1-a.X2)*pb) / d,
		Y: (pa*(b.Y1-b.Y2) - (a.Y1-a.Y2)*pb) / d,
	}, true
}

// fitPadding считает рамку, при которой все точки попадают в кадр.
// Отказ, если кадр вырастает больше чем на maxGrowth по любой оси.
func fitPadding(size entity.Size, pts [4]entity.Point, maxGrowth float64) (top, bottom, left, right int, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return 0, 0, 0, 0, false
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	left = max(0, int(math.Ceil(-minX)))
	top = max(0, int(math.Ceil(-minY)))
	right = max(0, int(math.Ceil(maxX-float64(size.Width-1))))
	bottom = max(0, int(math.Ceil(maxY-float64(size.Height-1))))

	if float64(size.Width+left+right) > float64(size.Width)*(1+maxGrowth) ||
		float64(size.Height+top+bottom) > float64(size.Height)*(1+maxGrowth) {
		return 0, 0, 0, 0, false
	}
	return top, bottom, left, right, true
}

// rectifiedSize размер выпрямленного номера по углам.
func rectifiedSize(corners [4]entity.Point, srcHeight int, minHeightFrac float64) (entity.Size, bool) {
	height := corners[3].Y - corners[0].Y
	if math.IsNaN(height) || height <= 0 || height < minHeightFrac*float64(srcHeight) {
		return entity.Size{}, false
	}
	size := entity.Size{
		Width:  int(math.Round(PlateAspect * height)),
		Height: int(math.Round(height)),
	}
	if size.Width <= 0 || size.Height <= 0 {
		return entity.Size{}, false
	}
	return size, true
}
