//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
)

// Колонки статистики ConnectedComponentsWithStats.
const (
	statLeft = iota
	statTop
	statWidth
	statHeight
	statArea
)

// ToHSV переводит 8-битный BGR-снимок в HSV. Для других форматов возвращает пустой Mat.
func ToHSV(img gocv.Mat) gocv.Mat {
	p, ok := planeFromMat(img)
	if !ok || p.ch != 3 {
		return gocv.NewMat()
	}
	return matFromPlane(bgrToHSV(p))
}

// BinaryByHueSaturation строит маску светлых малонасыщенных пикселей.
func BinaryByHueSaturation(hsv gocv.Mat, threshold uint8) gocv.Mat {
	p, ok := planeFromMat(hsv)
	if !ok || p.ch != 3 {
		return gocv.NewMat()
	}
	return matFromPlane(hueSatMask(p, threshold))
}

// ConnectedComponents размечает маску и возвращает компоненты по убыванию площади.
// Фон (метка 0) не включается.
func ConnectedComponents(mask gocv.Mat, maxCount int) []Component {
	if mask.Empty() || mask.Type() != gocv.MatTypeCV8UC1 {
		return nil
	}
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)
	comps := make([]Component, 0, max(n-1, 0))
	for label := 1; label < n; label++ {
		comps = append(comps, Component{
			Label: label,
			Area:  int(stats.GetIntAt(label, statArea)),
			Box:   BoundingBox(stats, label),
		})
	}
	return RankCandidates(comps, maxCount)
}

// BoundingBox рамка компоненты label по статистике. Пустая при неверной метке.
func BoundingBox(stats gocv.Mat, label int) entity.Rect {
	if stats.Empty() || label < 0 || label >= stats.Rows() || stats.Cols() <= statArea {
		return entity.Rect{}
	}
	return entity.Rect{
		X:      int(stats.GetIntAt(label, statLeft)),
		Y:      int(stats.GetIntAt(label, statTop)),
		Width:  int(stats.GetIntAt(label, statWidth)),
		Height: int(stats.GetIntAt(label, statHeight)),
	}
}
