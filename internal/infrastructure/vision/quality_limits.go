package vision

import "fmt"

// QualityLimits пороги замечаний к качеству снимка.
type QualityLimits struct {
	MinEdgeRatio    float64
	MaxOverexposed  float64
	MaxUnderexposed float64
	MaxGlare        float64
}

// DefaultQualityLimits пороги для камеры въезда.
func DefaultQualityLimits() QualityLimits {
	return QualityLimits{
		MinEdgeRatio:    0.008,
		MaxOverexposed:  0.35,
		MaxUnderexposed: 0.45,
		MaxGlare:        0.08,
	}
}

// QualityMetrics доли пикселей снимка.
type QualityMetrics struct {
	EdgeRatio    float64
	Overexposed  float64
	Underexposed float64
	Glare        float64
}

// Warnings возвращает замечания по метрикам, вышедшим за пороги.
func (m QualityMetrics) Warnings(q QualityLimits) []string {
	var warnings []string
	if m.EdgeRatio < q.MinEdgeRatio {
		warnings = append(warnings, fmt.Sprintf("image is blurry (edge_ratio=%.4f)", m.EdgeRatio))
	}
	if m.Overexposed > q.MaxOverexposed {
		warnings = append(warnings, fmt.Sprintf("overexposed image (ratio=%.4f)", m.Overexposed))
	}
	if m.Underexposed > q.MaxUnderexposed {
		warnings = append(warnings, fmt.Sprintf("underexposed image (ratio=%.4f)", m.Underexposed))
	}
	if m.Glare > q.MaxGlare {
		warnings = append(warnings, fmt.Sprintf("too much glare (ratio=%.4f)", m.Glare))
	}
	return warnings
}
