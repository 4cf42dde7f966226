package vision

import "math"

const nmsMargin = 2

// gradientPolar переводит производные Собеля в модуль и направление в градусах.
func gradientPolar(dx, dy fplane) (mag, dir fplane) {
	mag = newFPlane(dx.w, dx.h)
	dir = newFPlane(dx.w, dx.h)
	for i := range dx.pix {
		gx, gy := float64(dx.pix[i]), float64(dy.pix[i])
		mag.pix[i] = float32(math.Hypot(gx, gy))
		deg := math.Atan2(gy, gx) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		dir.pix[i] = float32(deg)
	}
	return mag, dir
}

// directionStep возвращает шаг вдоль градиента для направления, сведённого к 0/45/90/135.
func directionStep(deg float64) (dx, dy int) {
	a := math.Mod(deg, 180)
	if a < 0 {
		a += 180
	}
	switch {
	case a < 22.5 || a >= 157.5:
		return 1, 0
	case a < 67.5:
		return 1, 1
	case a < 112.5:
		return 0, 1
	default:
		return -1, 1
	}
}

// nonMaxSuppress оставляет пиксели, не меньшие соседей на 1 и 2 пикселя по обе стороны
// вдоль градиента. Рамка в 2 пикселя подавляется.
func nonMaxSuppress(src plane, dir fplane) plane {
	dst := newPlane(src.w, src.h, 1)
	if !src.valid() || src.ch != 1 || dir.w != src.w || dir.h != src.h {
		return dst
	}
	for y := nmsMargin; y < src.h-nmsMargin; y++ {
		for x := nmsMargin; x < src.w-nmsMargin; x++ {
			v := src.at(x, y, 0)
			if v == 0 {
				continue
			}
			sx, sy := directionStep(float64(dir.at(x, y)))
			keep := true
			for k := 1; k <= 2 && keep; k++ {
				if v < src.at(x+k*sx, y+k*sy, 0) || v < src.at(x-k*sx, y-k*sy, 0) {
					keep = false
				}
			}
			if keep {
				dst.set(x, y, 0, 255)
			}
		}
	}
	return dst
}
