package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBGRToHSVPixel(t *testing.T) {
	tests := []struct {
		name    string
		b, g, r uint8
		h, s, v uint8
	}{
		{"blue", 255, 0, 0, 120, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"red", 0, 0, 255, 0, 255, 255},
		{"magenta", 255, 0, 255, 150, 255, 255},
		{"gray", 128, 128, 128, 0, 0, 128},
		{"black", 0, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := bgrToHSVPixel(tt.b, tt.g, tt.r)
			require.Equal(t, []uint8{tt.h, tt.s, tt.v}, []uint8{h, s, v})
		})
	}
}

func TestHSVRoundTrip(t *testing.T) {
	src := newPlane(18, 18, 3)
	i := 0
	for b := 0; b < 256; b += 85 {
		for g := 0; g < 256; g += 15 {
			for r := 0; r < 256; r += 51 {
				if i >= len(src.pix) {
					break
				}
				src.pix[i], src.pix[i+1], src.pix[i+2] = uint8(b), uint8(g), uint8(r)
				i += 3
			}
		}
	}

	back := hsvToBGR(bgrToHSV(src))
	require.True(t, back.valid())
	for j := range src.pix {
		diff := int(src.pix[j]) - int(back.pix[j])
		require.LessOrEqual(t, diff*diff, 36, "channel %d: %d vs %d", j, src.pix[j], back.pix[j])
	}
}

func TestColorConversion_RejectsWrongChannels(t *testing.T) {
	gray := newPlane(4, 4, 1)
	require.False(t, bgrToHSV(gray).valid())
	require.False(t, hsvToBGR(gray).valid())
	require.False(t, hueSatMask(gray, 100).valid())
	require.False(t, maskBadge(gray).valid())
}

func TestHueSatMask(t *testing.T) {
	hsv := newPlane(3, 1, 3)
	copy(hsv.pix, []uint8{
		0, 10, 250, // светлый серый
		120, 255, 255, // насыщенный синий
		0, 10, 50, // тёмный
	})

	mask := hueSatMask(hsv, 100)
	require.Equal(t, []uint8{255, 0, 0}, mask.pix)
}

func TestMaskBadge(t *testing.T) {
	hsv := newPlane(3, 1, 3)
	copy(hsv.pix, []uint8{
		115, 150, 150, // плашка
		99, 150, 150, // тон вне диапазона
		115, 240, 150, // насыщенность вне диапазона
	})

	out := maskBadge(hsv)
	require.Equal(t, []uint8{0, 0, 0, 99, 150, 150, 115, 240, 150}, out.pix)
	require.Equal(t, uint8(115), hsv.pix[0], "source must stay intact")
}
