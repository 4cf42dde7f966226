package vision

import "math"

// bgrToHSVPixel ручной перевод BGR в HSV: H в единицах HueScale, S и V в [0,255].
func bgrToHSVPixel(b, g, r uint8) (h, s, v uint8) {
	bf, gf, rf := float64(b), float64(g), float64(r)
	hi := max(bf, gf, rf)
	lo := min(bf, gf, rf)
	delta := hi - lo

	var hue float64
	switch {
	case delta == 0:
		hue = 0
	case hi == rf:
		hue = 60 * math.Mod((gf-bf)/delta, 6)
	case hi == gf:
		hue = 60 * ((bf-rf)/delta + 2)
	default:
		hue = 60 * ((rf-gf)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}

	var sat float64
	if hi > 0 {
		sat = delta / hi * 255
	}

	return clampByte(hue * HueScale), clampByte(sat), uint8(hi)
}

// hsvToBGRPixel обратное преобразование в той же шкале.
func hsvToBGRPixel(h, s, v uint8) (b, g, r uint8) {
	hue := math.Mod(float64(h)/HueScale, 360)
	vf := float64(v)
	c := vf * float64(s) / 255
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := vf - c

	var rf, gf, bf float64
	switch {
	case hue < 60:
		rf, gf, bf = c, x, 0
	case hue < 120:
		rf, gf, bf = x, c, 0
	case hue < 180:
		rf, gf, bf = 0, c, x
	case hue < 240:
		rf, gf, bf = 0, x, c
	case hue < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	return clampByte(bf + m), clampByte(gf + m), clampByte(rf + m)
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func bgrToHSV(src plane) plane {
	if !src.valid() || src.ch != 3 {
		return plane{}
	}
	dst := newPlane(src.w, src.h, 3)
	for i := 0; i < len(src.pix); i += 3 {
		dst.pix[i], dst.pix[i+1], dst.pix[i+2] = bgrToHSVPixel(src.pix[i], src.pix[i+1], src.pix[i+2])
	}
	return dst
}

func hsvToBGR(src plane) plane {
	if !src.valid() || src.ch != 3 {
		return plane{}
	}
	dst := newPlane(src.w, src.h, 3)
	for i := 0; i < len(src.pix); i += 3 {
		dst.pix[i], dst.pix[i+1], dst.pix[i+2] = hsvToBGRPixel(src.pix[i], src.pix[i+1], src.pix[i+2])
	}
	return dst
}

// hueSatMask белый пиксель там, где S < threshold и V > threshold.
func hueSatMask(hsv plane, threshold uint8) plane {
	if !hsv.valid() || hsv.ch != 3 {
		return plane{}
	}
	dst := newPlane(hsv.w, hsv.h, 1)
	for i, j := 0, 0; i < len(hsv.pix); i, j = i+3, j+1 {
		if hsv.pix[i+1] < threshold && hsv.pix[i+2] > threshold {
			dst.pix[j] = 255
		}
	}
	return dst
}

func inBadgeRange(h, s, v uint8) bool {
	return h > badgeHueMin && h < badgeHueMax &&
		s > badgeSatMin && s < badgeSatMax &&
		v > badgeValMin && v < badgeValMax
}

// maskBadge обнуляет пиксели синей плашки.
func maskBadge(hsv plane) plane {
	if !hsv.valid() || hsv.ch != 3 {
		return plane{}
	}
	dst := plane{w: hsv.w, h: hsv.h, ch: 3, pix: append([]uint8(nil), hsv.pix...)}
	for i := 0; i < len(dst.pix); i += 3 {
		if inBadgeRange(dst.pix[i], dst.pix[i+1], dst.pix[i+2]) {
			dst.pix[i], dst.pix[i+1], dst.pix[i+2] = 0, 0, 0
		}
	}
	return dst
}
