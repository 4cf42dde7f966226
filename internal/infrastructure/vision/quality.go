//go:build gocv
// +build gocv

package vision

import "gocv.io/x/gocv"

// AssessQuality измеряет резкость, пересвет, недосвет и блики снимка.
// Плохое качество не останавливает распознавание, только даёт замечания.
func AssessQuality(img gocv.Mat, q QualityLimits) []string {
	if img.Empty() || img.Channels() != 3 {
		return nil
	}
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}

	m := QualityMetrics{
		EdgeRatio:    ratioOfMask(edges),
		Overexposed:  ratioOfMask(bright),
		Underexposed: ratioOfMask(dark),
	}
	if len(channels) == 3 {
		lowSat := gocv.NewMat()
		defer lowSat.Close()
		gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)
		highVal := gocv.NewMat()
		defer highVal.Close()
		gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)
		glare := gocv.NewMat()
		defer glare.Close()
		gocv.BitwiseAnd(lowSat, highVal, &glare)
		m.Glare = ratioOfMask(glare)
	}
	return m.Warnings(q)
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
