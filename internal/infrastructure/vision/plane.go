package vision

// plane 8-битный растр с чередующимися каналами.
type plane struct {
	w, h, ch int
	pix      []uint8
}

func newPlane(w, h, ch int) plane {
	return plane{w: w, h: h, ch: ch, pix: make([]uint8, w*h*ch)}
}

func (p plane) valid() bool {
	return p.w > 0 && p.h > 0 && p.ch > 0 && len(p.pix) == p.w*p.h*p.ch
}

func (p plane) at(x, y, c int) uint8 {
	return p.pix[(y*p.w+x)*p.ch+c]
}

func (p plane) set(x, y, c int, v uint8) {
	p.pix[(y*p.w+x)*p.ch+c] = v
}

// fplane одноканальный вещественный растр.
type fplane struct {
	w, h int
	pix  []float32
}

func newFPlane(w, h int) fplane {
	return fplane{w: w, h: h, pix: make([]float32, w*h)}
}

func (p fplane) at(x, y int) float32 {
	return p.pix[y*p.w+x]
}
