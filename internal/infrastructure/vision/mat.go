//go:build gocv
// +build gocv

package vision

import (
	"image/color"

	"gocv.io/x/gocv"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
	green = color.RGBA{G: 255, A: 255}
)

// planeFromMat копирует пиксели 8-битного Mat в plane.
func planeFromMat(m gocv.Mat) (plane, bool) {
	if m.Empty() {
		return plane{}, false
	}
	switch m.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3:
	default:
		return plane{}, false
	}
	src := m
	if !m.IsContinuous() {
		src = m.Clone()
		defer src.Close()
	}
	p := plane{w: m.Cols(), h: m.Rows(), ch: m.Channels(), pix: src.ToBytes()}
	return p, p.valid()
}

// matFromPlane создаёт Mat с собственной копией пикселей.
func matFromPlane(p plane) gocv.Mat {
	if !p.valid() {
		return gocv.NewMat()
	}
	mt := gocv.MatTypeCV8UC1
	if p.ch == 3 {
		mt = gocv.MatTypeCV8UC3
	}
	m, err := gocv.NewMatFromBytes(p.h, p.w, mt, p.pix)
	if err != nil {
		return gocv.NewMat()
	}
	defer m.Close()
	return m.Clone()
}

// fplaneFromMat переводит одноканальный Mat в float32.
func fplaneFromMat(m gocv.Mat) (fplane, bool) {
	if m.Empty() || m.Channels() != 1 {
		return fplane{}, false
	}
	f := gocv.NewMat()
	defer f.Close()
	m.ConvertTo(&f, gocv.MatTypeCV32F)
	data, err := f.DataPtrFloat32()
	if err != nil {
		return fplane{}, false
	}
	p := newFPlane(m.Cols(), m.Rows())
	copy(p.pix, data)
	return p, true
}

func zeros(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}

// encodePNG кодирует Mat для движка OCR.
func encodePNG(m gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...), nil
}
