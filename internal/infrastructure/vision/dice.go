package vision

import (
	"math"

	"plate-reader/internal/domain/entity"
)

// DiceMatcher сравнивает символ с эталоном по коэффициенту Дайса.
type DiceMatcher struct {
	template plane // бинарный эталон, обрезанный по краске
}

// inkBounds рамка ненулевых пикселей. Пустая, если краски нет.
func inkBounds(p plane) entity.Rect {
	x0, y0, x1, y1 := p.w, p.h, -1, -1
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			if p.at(x, y, 0) == 0 {
				continue
			}
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x), max(y1, y)
		}
	}
	if x1 < 0 {
		return entity.Rect{}
	}
	return entity.Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}

func cropPlane(p plane, r entity.Rect) plane {
	r = r.Clip(entity.Size{Width: p.w, Height: p.h})
	dst := newPlane(r.Width, r.Height, p.ch)
	for y := 0; y < r.Height; y++ {
		src := ((r.Y+y)*p.w + r.X) * p.ch
		copy(dst.pix[y*r.Width*p.ch:(y+1)*r.Width*p.ch], p.pix[src:src+r.Width*p.ch])
	}
	return dst
}

// padCentered размещает растр по центру холста w×h.
func padCentered(p plane, w, h int) plane {
	dst := newPlane(w, h, p.ch)
	ox, oy := (w-p.w)/2, (h-p.h)/2
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			tx, ty := x+ox, y+oy
			if tx < 0 || ty < 0 || tx >= w || ty >= h {
				continue
			}
			for c := 0; c < p.ch; c++ {
				dst.set(tx, ty, c, p.at(x, y, c))
			}
		}
	}
	return dst
}

// diceCoefficient 2|A∩B|/(|A|+|B|) по ненулевым пикселям растров одного размера.
func diceCoefficient(a, b plane) float64 {
	if len(a.pix) != len(b.pix) {
		return 0
	}
	var na, nb, both int
	for i := range a.pix {
		pa, pb := a.pix[i] != 0, b.pix[i] != 0
		if pa {
			na++
		}
		if pb {
			nb++
		}
		if pa && pb {
			both++
		}
	}
	if na+nb == 0 {
		return 0
	}
	return 2 * float64(both) / float64(na+nb)
}

// normalizeInk делает краску белой: если белого больше половины, растр инвертируется.
func normalizeInk(p plane) plane {
	white := 0
	for _, v := range p.pix {
		if v != 0 {
			white++
		}
	}
	if 2*white <= len(p.pix) {
		return p
	}
	dst := newPlane(p.w, p.h, p.ch)
	for i, v := range p.pix {
		if v == 0 {
			dst.pix[i] = 255
		}
	}
	return dst
}

// compareGlyphs выравнивает символ и эталон одной высоты на общем холсте и считает Дайс.
func compareGlyphs(probe, template plane) float64 {
	w := max(probe.w, template.w)
	h := max(probe.h, template.h)
	return diceCoefficient(padCentered(probe, w, h), padCentered(template, w, h))
}

// newDiceMatcher готовит эталон: краска белая, растр обрезан по краске.
func newDiceMatcher(template plane) (*DiceMatcher, bool) {
	if !template.valid() || template.ch != 1 {
		return nil, false
	}
	template = normalizeInk(template)
	bounds := inkBounds(template)
	if bounds.Empty() {
		return nil, false
	}
	return &DiceMatcher{template: cropPlane(template, bounds)}, true
}

// scaleToHeight масштабирует растр до высоты h с сохранением пропорций, ближайший сосед.
func scaleToHeight(p plane, h int) plane {
	if h <= 0 || !p.valid() {
		return plane{}
	}
	w := max(1, int(math.Round(float64(p.w)*float64(h)/float64(p.h))))
	dst := newPlane(w, h, p.ch)
	for y := 0; y < h; y++ {
		sy := min(y*p.h/h, p.h-1)
		for x := 0; x < w; x++ {
			sx := min(x*p.w/w, p.w-1)
			for c := 0; c < p.ch; c++ {
				dst.set(x, y, c, p.at(sx, sy, c))
			}
		}
	}
	return dst
}

// Match сравнивает символ (белая краска на чёрном) с эталоном.
// Совпадение, если Дайс больше threshold.
func (m *DiceMatcher) Match(probe plane, threshold float64) (bool, float64) {
	if m == nil || !probe.valid() || probe.ch != 1 {
		return false, 0
	}
	bounds := inkBounds(probe)
	if bounds.Empty() {
		return false, 0
	}
	probe = cropPlane(probe, bounds)
	d := compareGlyphs(probe, scaleToHeight(m.template, probe.h))
	return d > threshold, d
}
